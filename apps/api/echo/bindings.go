package echoapi

import (
	"github.com/go-playground/validator/v10"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate(validate *validator.Validate) error { return validate.Struct(r) }

type LoginResponse struct {
	Token string `json:"token"`
}

type EnrollRequest struct {
	Code string `json:"code" validate:"required,alphanum_"`
}

func (r *EnrollRequest) Validate(validate *validator.Validate) error { return validate.Struct(r) }

type MarkRequest struct {
	Mark float64 `json:"mark" validate:"min=0,max=100"`
}

func (r *MarkRequest) Validate(validate *validator.Validate) error { return validate.Struct(r) }

type SubjectResponse struct {
	Code  string  `json:"code"`
	Mark  float64 `json:"mark"`
	Grade string  `json:"grade"`
}

type SubjectsResponse struct {
	Subjects    []SubjectResponse `json:"subjects"`
	AverageMark float64           `json:"average_mark"`
	Grade       string            `json:"grade"`
	Outcome     string            `json:"outcome"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}
