package recordstore

import (
	"github.com/trezcool/sajili/core/student"
)

var _ student.Repository = (*Store)(nil)

func (s *Store) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students, err := s.load()
	if err != nil {
		return err
	}
	for _, std := range students {
		if std.Email == email && !isExcluded(std, excludedStudents) {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (s *Store) CreateStudent(std student.Student) (student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return student.Student{}, err
	}
	for _, existing := range students {
		if existing.Email == std.Email {
			return student.Student{}, student.ErrEmailExists
		}
	}
	if err = s.append(std); err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (s *Store) QueryAllStudents() ([]student.Student, error) {
	return s.Load()
}

func (s *Store) GetStudentByID(id string) (student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students, err := s.load()
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range students {
		if std.ID == id {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (s *Store) GetStudentByEmail(email string) (student.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students, err := s.load()
	if err != nil {
		return student.Student{}, err
	}
	for _, std := range students {
		if std.Email == email {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (s *Store) UpdateStudent(std student.Student) (student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return student.Student{}, err
	}
	for i, existing := range students {
		if existing.ID == std.ID {
			students[i] = std
			if err = s.saveAll(students); err != nil {
				return student.Student{}, err
			}
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (s *Store) DeleteStudentsByID(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	students, err := s.load()
	if err != nil {
		return err
	}
	kept := students[:0]
	for _, std := range students {
		if !containsID(ids, std.ID) {
			kept = append(kept, std)
		}
	}
	if len(kept) == len(students) {
		return nil
	}
	return s.saveAll(kept)
}

func (s *Store) DeleteAllStudents() error {
	return s.SaveAll(nil)
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
