package student

import (
	"fmt"
	"math/rand"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/sajili/core"
)

var (
	// errors
	ErrNotFound             = errors.New("student not found")
	ErrEmailExists          = errors.New("a student with this email already exists")
	ErrEnrollmentLimit      = errors.Errorf("maximum subjects (%d) already enrolled", MaxSubjects)
	ErrAlreadyEnrolled      = errors.New("subject already enrolled")
	ErrNotEnrolled          = errors.New("subject not enrolled")
	ErrInvalidMark          = errors.New("mark must be between 0 and 100")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrPasswordReused       = errors.New("old passwords cannot be used")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedStudents ...Student) error
		CreateStudent(student Student) (Student, error)
		// QueryAllStudents returns all records in stable insertion order.
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id string) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		UpdateStudent(student Student) (Student, error)
		DeleteStudentsByID(ids ...string) error
		DeleteAllStudents() error
	}

	Service struct {
		repo Repository
		mail core.EmailService
		conf *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mail: mailSvc, conf: conf}
}

func (svc *Service) CheckUniqueness(email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclStudents...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates a new Student with a fresh 6-digit ID and sends a welcome email.
func (svc *Service) Register(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, err
	}

	id, err := NewID(svc.repo)
	if err != nil {
		return Student{}, err
	}
	std.ID = id

	std, err = svc.repo.CreateStudent(std)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeEmail(std)
	return std, nil
}

// NewID generates a random 6-digit student ID, retrying on collision.
func NewID(repo Repository) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		id := fmt.Sprintf("%06d", rand.Intn(1000000))
		if _, err := repo.GetStudentByID(id); err == ErrNotFound {
			return id, nil
		} else if err != nil {
			return "", err
		}
	}
	return "", errors.New("could not allocate a student ID")
}

func (svc *Service) sendWelcomeEmail(std Student) {
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		BodyStr: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour registration was successful. Your student ID is %s.\r\n",
			std.Name, std.ID,
		),
	})
}

// Authenticate checks the credentials and updates LastLogin on success.
func (svc *Service) Authenticate(email, pwd string) (Student, error) {
	std, err := svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrNotFound {
			return Student{}, ErrAuthenticationFailed
		}
		return Student{}, errors.Wrap(err, "finding student by email")
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, ErrAuthenticationFailed
	}
	return svc.SetLastLogin(std)
}

func (svc *Service) SetLastLogin(std Student) (Student, error) {
	std.LastLogin = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id string) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *Service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

// Enroll adds the subject to the student and persists; prior state is kept on failure.
func (svc *Service) Enroll(studentID, code string) (Student, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if err = std.Enroll(Subject{Code: core.CleanString(code)}); err != nil {
		return Student{}, err
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) Withdraw(studentID, code string) (Student, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if err = std.Withdraw(core.CleanString(code)); err != nil {
		return Student{}, err
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) RecordMark(studentID, code string, mark float64) (Student, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if err = std.SetMark(core.CleanString(code), mark); err != nil {
		return Student{}, err
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}

func (svc *Service) ChangePassword(studentID string, cp ChangePassword) (Student, error) {
	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return Student{}, err
	}
	if err = std.CheckPassword(cp.OldPassword); err != nil {
		return Student{}, ErrAuthenticationFailed
	}
	if cp.Password == cp.OldPassword {
		return Student{}, core.NewValidationError(
			ErrPasswordReused, core.FieldError{Field: "password", Error: ErrPasswordReused.Error()})
	}
	if err = std.SetPassword(cp.Password); err != nil {
		return Student{}, err
	}
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(std)
}
