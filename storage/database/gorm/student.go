// Package gormrepos provides a gorm-backed student repository.
// SQLite is the intended driver; it gives a structured local store that
// needs no server, which suits the single-process deployment model.
package gormrepos

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/sajili/core/student"
)

// studentModel is the gorm mapping of a Student. RowID preserves
// insertion order; the 6-digit student ID stays the lookup key.
type studentModel struct {
	RowID        uint   `gorm:"primaryKey;autoIncrement"`
	ID           string `gorm:"uniqueIndex;not null"`
	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash []byte
	Subjects     []student.Subject `gorm:"serializer:json"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    time.Time
}

func (studentModel) TableName() string { return "students" }

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) (student.Repository, error) {
	if err := db.AutoMigrate(&studentModel{}); err != nil {
		return nil, errors.Wrap(err, "migrating students table")
	}
	return &studentRepository{db: db}, nil
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	q := repo.db.Model(&studentModel{}).Where("email = ?", email)
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			ids = append(ids, std.ID)
		}
		q = q.Where("id NOT IN ?", ids)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	if err := repo.CheckEmailUniqueness(std.Email); err != nil {
		return student.Student{}, err
	}
	if std.ID == "" {
		std.ID = uuid.NewString()
	}
	model := toModel(std)
	if err := repo.db.Create(&model).Error; err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var models []studentModel
	if err := repo.db.Order("row_id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(models))
	for _, m := range models {
		students = append(students, m.toEntity())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	return repo.getOne("id = ?", id)
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	return repo.getOne("email = ?", email)
}

func (repo *studentRepository) getOne(query string, arg interface{}) (student.Student, error) {
	var model studentModel
	if err := repo.db.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "querying student")
	}
	return model.toEntity(), nil
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	model := toModel(std)
	res := repo.db.Model(&studentModel{}).Where("id = ?", std.ID).
		Select("Name", "Email", "PasswordHash", "Subjects", "UpdatedAt", "LastLogin").
		Updates(&model)
	if res.Error != nil {
		return student.Student{}, errors.Wrap(res.Error, "updating student")
	}
	if res.RowsAffected == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := repo.db.Where("id IN ?", ids).Delete(&studentModel{}).Error; err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepository) DeleteAllStudents() error {
	if err := repo.db.Where("1 = 1").Delete(&studentModel{}).Error; err != nil {
		return errors.Wrap(err, "clearing students")
	}
	return nil
}

func toModel(std student.Student) studentModel {
	return studentModel{
		ID:           std.ID,
		Name:         std.Name,
		Email:        std.Email,
		PasswordHash: std.PasswordHash,
		Subjects:     std.Subjects,
		CreatedAt:    std.CreatedAt,
		UpdatedAt:    std.UpdatedAt,
		LastLogin:    std.LastLogin,
	}
}

func (m studentModel) toEntity() student.Student {
	return student.Student{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Subjects:     m.Subjects,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		LastLogin:    m.LastLogin.UTC(),
	}
}
