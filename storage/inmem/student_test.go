package inmemdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/sajili/core/student"
	inmemdb "github.com/trezcool/sajili/storage/inmem"
	testutil "github.com/trezcool/sajili/tests"
)

func setup(t *testing.T) student.Repository {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)
	return inmemdb.NewStudentRepository(db)
}

func TestStudentRepository_insertionOrder(t *testing.T) {
	repo := setup(t)

	testutil.CreateStudent(t, repo, "000003", "C", "c@university.com", "", nil)
	testutil.CreateStudent(t, repo, "000001", "A", "a@university.com", "", nil)
	testutil.CreateStudent(t, repo, "000002", "B", "b@university.com", "", nil)

	students, err := repo.QueryAllStudents()
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "000003", students[0].ID)
	assert.Equal(t, "000001", students[1].ID)
	assert.Equal(t, "000002", students[2].ID)
}

func TestStudentRepository_CreateStudent_duplicateEmail(t *testing.T) {
	repo := setup(t)

	testutil.CreateStudent(t, repo, "000001", "Jane", "jane@university.com", "", nil)

	_, err := repo.CreateStudent(student.Student{ID: "000002", Name: "Dupe", Email: "jane@university.com"})
	assert.Equal(t, student.ErrEmailExists, err)
}

func TestStudentRepository_UpdateStudent_isolated(t *testing.T) {
	repo := setup(t)

	std := testutil.CreateStudent(t, repo, "000001", "Jane", "jane@university.com", "", nil)

	// mutating the returned copy does not touch the stored row
	std.Name = "Changed"
	got, err := repo.GetStudentByID("000001")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)

	_, err = repo.UpdateStudent(std)
	require.NoError(t, err)
	got, err = repo.GetStudentByID("000001")
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Name)

	_, err = repo.UpdateStudent(student.Student{ID: "999999"})
	assert.Equal(t, student.ErrNotFound, err)
}

func TestStudentRepository_deletes(t *testing.T) {
	repo := setup(t)

	testutil.CreateStudent(t, repo, "000001", "A", "a@university.com", "", nil)
	testutil.CreateStudent(t, repo, "000002", "B", "b@university.com", "", nil)
	testutil.CreateStudent(t, repo, "000003", "C", "c@university.com", "", nil)

	require.NoError(t, repo.DeleteStudentsByID("000001", "000003", "999999"))
	students, err := repo.QueryAllStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "000002", students[0].ID)

	require.NoError(t, repo.DeleteAllStudents())
	students, err = repo.QueryAllStudents()
	require.NoError(t, err)
	assert.Empty(t, students)
}
