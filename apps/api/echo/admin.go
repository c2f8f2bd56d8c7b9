package echoapi

import (
	"bytes"
	"crypto/subtle"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/directory"
	"github.com/trezcool/sajili/core/student"
)

type adminApi struct {
	svc      *directory.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerAdminAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *directory.Service,
	conf *core.Config,
	validate *validator.Validate,
) {
	api := adminApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	ag := g.Group("/admin")
	ag.POST("/login", api.login)

	// authed endpoints
	dg := ag.Group("", jwt, adminMiddleware())
	dg.GET("/students", api.list)
	dg.GET("/students/grouped", api.groupByGrade)
	dg.GET("/students/partitioned", api.partitionByOutcome)
	dg.GET("/students/export", api.export)
	dg.DELETE("/students/:id", api.remove)
	dg.DELETE("/students", api.clear)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	emailOK := subtle.ConstantTimeCompare([]byte(data.Email), []byte(api.conf.Admin.Email)) == 1
	pwdOK := subtle.ConstantTimeCompare([]byte(data.Password), []byte(api.conf.Admin.Password)) == 1
	if !(emailOK && pwdOK) {
		return core.NewValidationError(student.ErrAuthenticationFailed)
	}

	token, err := generateToken(api.conf, getAdminClaims(api.conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) list(ctx echo.Context) error {
	students, err := api.svc.ListAll()
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) groupByGrade(ctx echo.Context) error {
	groups, err := api.svc.GroupByGrade()
	if err != nil {
		return errors.Wrap(err, "grouping students")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *adminApi) partitionByOutcome(ctx echo.Context) error {
	passing, failing, err := api.svc.PartitionByOutcome()
	if err != nil {
		return errors.Wrap(err, "partitioning students")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"passing": passing,
		"failing": failing,
	})
}

func (api *adminApi) export(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := api.svc.ExportXLSX(&buf); err != nil {
		return errors.Wrap(err, "exporting students")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+directory.ExportFilename()+`"`)
	return ctx.Blob(
		http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes(),
	)
}

func (api *adminApi) remove(ctx echo.Context) error {
	if err := api.svc.Remove(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) clear(ctx echo.Context) error {
	if err := api.svc.Clear(); err != nil {
		return errors.Wrap(err, "clearing students")
	}
	return ctx.NoContent(http.StatusNoContent)
}
