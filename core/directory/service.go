package directory

import (
	"sort"

	"github.com/trezcool/sajili/core"
	"github.com/trezcool/sajili/core/student"
)

// Service exposes the administrative bulk operations over all stored students.
type Service struct {
	repo  student.Repository
	scale core.GradeScale
}

func NewService(repo student.Repository, conf *core.Config) *Service {
	return &Service{repo: repo, scale: conf.Grading}
}

// ListAll returns all students in stable insertion order.
func (svc *Service) ListAll() ([]student.Student, error) {
	return svc.repo.QueryAllStudents()
}

// GroupByGrade buckets students by the letter grade of their overall outcome.
// Each bucket is sorted by average mark, best first.
func (svc *Service) GroupByGrade() (map[string][]student.Student, error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]student.Student)
	for _, std := range students {
		grade := std.Grade(svc.scale)
		groups[grade] = append(groups[grade], std)
	}
	for grade := range groups {
		sortByAverageDesc(groups[grade])
	}
	return groups, nil
}

// PartitionByOutcome splits students into disjoint passing and failing sets;
// their union is the full directory. Both are sorted by average mark, best first.
func (svc *Service) PartitionByOutcome() (passing, failing []student.Student, err error) {
	students, err := svc.repo.QueryAllStudents()
	if err != nil {
		return nil, nil, err
	}
	passing = make([]student.Student, 0, len(students))
	failing = make([]student.Student, 0)
	for _, std := range students {
		if std.IsPassing(svc.scale) {
			passing = append(passing, std)
		} else {
			failing = append(failing, std)
		}
	}
	sortByAverageDesc(passing)
	sortByAverageDesc(failing)
	return passing, failing, nil
}

// Remove deletes the student; the store is left untouched when the id is unknown.
func (svc *Service) Remove(id string) error {
	if _, err := svc.repo.GetStudentByID(id); err != nil {
		return err
	}
	return svc.repo.DeleteStudentsByID(id)
}

// Clear empties the whole directory; clearing an empty directory is a no-op.
func (svc *Service) Clear() error {
	return svc.repo.DeleteAllStudents()
}

func sortByAverageDesc(students []student.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].AverageMark() > students[j].AverageMark()
	})
}
