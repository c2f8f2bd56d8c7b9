package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/sajili/core"
)

// MaxSubjects is the enrollment cap per student.
const MaxSubjects = 4

// Subject is a single enrollment, owned exclusively by its Student.
type Subject struct {
	Code string  `json:"code"`
	Mark float64 `json:"mark"`
}

func (s Subject) Grade(scale core.GradeScale) string {
	return scale.Letter(s.Mark)
}

type Student struct {
	ID           string    `json:"id"` // generated 6-digit number
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Subjects     []Subject `json:"subjects"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) IsEnrolled(code string) bool {
	for _, sub := range s.Subjects {
		if sub.Code == code {
			return true
		}
	}
	return false
}

// Enroll adds a new Subject; the enrollment cap and duplicate codes are enforced here.
func (s *Student) Enroll(sub Subject) error {
	if len(s.Subjects) >= MaxSubjects {
		return ErrEnrollmentLimit
	}
	if s.IsEnrolled(sub.Code) {
		return ErrAlreadyEnrolled
	}
	s.Subjects = append(s.Subjects, sub)
	return nil
}

func (s *Student) Withdraw(code string) error {
	for i, sub := range s.Subjects {
		if sub.Code == code {
			s.Subjects = append(s.Subjects[:i], s.Subjects[i+1:]...)
			return nil
		}
	}
	return ErrNotEnrolled
}

func (s *Student) SetMark(code string, mark float64) error {
	if mark < 0 || mark > 100 {
		return ErrInvalidMark
	}
	for i := range s.Subjects {
		if s.Subjects[i].Code == code {
			s.Subjects[i].Mark = mark
			return nil
		}
	}
	return ErrNotEnrolled
}

// AverageMark is the mean of all enrolled subjects' marks; 0 if none are enrolled.
func (s *Student) AverageMark() float64 {
	if len(s.Subjects) == 0 {
		return 0
	}
	var sum float64
	for _, sub := range s.Subjects {
		sum += sub.Mark
	}
	return sum / float64(len(s.Subjects))
}

func (s *Student) Grade(scale core.GradeScale) string {
	return scale.Letter(s.AverageMark())
}

func (s *Student) IsPassing(scale core.GradeScale) bool {
	return scale.IsPassing(s.AverageMark())
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email,unimail"`
	Password        string `json:"password" validate:"required,legacypwd"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ns.Email)
}

// ChangePassword defines what is needed to replace a Student's password.
type ChangePassword struct {
	OldPassword     string `json:"old_password" validate:"required"`
	Password        string `json:"password" validate:"required,legacypwd"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (cp *ChangePassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}
