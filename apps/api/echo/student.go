package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/student"
)

type studentApi struct {
	svc      *student.Service
	conf     *core.Config
	validate *validator.Validate
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc *student.Service,
	conf *core.Config,
	validate *validator.Validate,
) {
	api := studentApi{
		svc:      svc,
		conf:     conf,
		validate: validate,
	}

	sg := g.Group("/students")

	// un-authed endpoints
	sg.POST("/register", api.register)
	sg.POST("/login", api.login)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/token-refresh", api.refreshToken)
	ag.POST("/change-password", api.changePassword)
	ag.GET("/me", api.retrieve)
	ag.GET("/me/subjects", api.subjects)
	ag.POST("/me/subjects", api.enroll)
	ag.DELETE("/me/subjects/:code", api.withdraw)
	ag.PUT("/me/subjects/:code/mark", api.recordMark)
}

// Handlers

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Authenticate(data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == student.ErrAuthenticationFailed {
			return core.NewValidationError(student.ErrAuthenticationFailed)
		}
		return errors.Wrap(err, "authenticating")
	}
	token, err := generateToken(api.conf, getStudentClaims(api.conf, std))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *studentApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) subjects(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	scale := api.conf.Grading
	subjects := make([]SubjectResponse, 0, len(std.Subjects))
	for _, sub := range std.Subjects {
		subjects = append(subjects, SubjectResponse{
			Code:  sub.Code,
			Mark:  sub.Mark,
			Grade: sub.Grade(scale),
		})
	}
	return ctx.JSON(http.StatusOK, SubjectsResponse{
		Subjects:    subjects,
		AverageMark: std.AverageMark(),
		Grade:       std.Grade(scale),
		Outcome:     outcome(std, scale),
	})
}

func (api *studentApi) enroll(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	var data EnrollRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	std, err = api.svc.Enroll(std.ID, data.Code)
	if err != nil {
		return err
	}
	ctx.Set(contextStudentKey, std)
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) withdraw(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	std, err = api.svc.Withdraw(std.ID, ctx.Param("code"))
	if err != nil {
		return err
	}
	ctx.Set(contextStudentKey, std)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) recordMark(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	var data MarkRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkRequest")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	std, err = api.svc.RecordMark(std.ID, ctx.Param("code"), data.Mark)
	if err != nil {
		return err
	}
	ctx.Set(contextStudentKey, std)
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) changePassword(ctx echo.Context) error {
	std, err := getContextStudent(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context student")
	}

	var data student.ChangePassword
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	if _, err = api.svc.ChangePassword(std.ID, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password changed successfully."})
}

func outcome(std student.Student, scale core.GradeScale) string {
	if std.IsPassing(scale) {
		return "PASS"
	}
	return "FAIL"
}
