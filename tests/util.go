package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/sajili/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	id, name, email, pwd string,
	subjects []student.Subject,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std := student.Student{
		ID:        id,
		Name:      name,
		Email:     email,
		Subjects:  subjects,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("createStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(std)
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}
