package inmemdb

import (
	"github.com/trezcool/sajili/core/student"
)

type studentRepository struct {
	db *studentTable
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.Email == email && !isExcluded(*std, excludedStudents) {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.rows {
		if existing.Email == std.Email {
			return student.Student{}, student.ErrEmailExists
		}
	}
	repo.db.rows = append(repo.db.rows, &std)
	return std, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.rows))
	for _, std := range repo.db.rows {
		students = append(students, *std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.ID == id {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.rows {
		if std.Email == email {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i, existing := range repo.db.rows {
		if existing.ID == std.ID {
			repo.db.rows[i] = &std
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	kept := repo.db.rows[:0]
	for _, std := range repo.db.rows {
		if !containsID(ids, std.ID) {
			kept = append(kept, std)
		}
	}
	repo.db.rows = kept
	return nil
}

func (repo *studentRepository) DeleteAllStudents() error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.rows = repo.db.rows[:0]
	return nil
}

func isExcluded(std student.Student, excluded []student.Student) bool {
	for _, ex := range excluded {
		if ex.ID == std.ID {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}
