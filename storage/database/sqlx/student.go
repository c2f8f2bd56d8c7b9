package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/sajili/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// studentRow mirrors the `student` table; subjects are a JSONB array.
type studentRow struct {
	Seq          int64        `db:"seq"`
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash []byte       `db:"password_hash"`
	Subjects     []byte       `db:"subjects"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
	LastLogin    sql.NullTime `db:"last_login"`
}

func (row studentRow) toEntity() (student.Student, error) {
	std := student.Student{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if row.LastLogin.Valid {
		std.LastLogin = row.LastLogin.Time.UTC()
	}
	if err := json.Unmarshal(row.Subjects, &std.Subjects); err != nil {
		return student.Student{}, errors.Wrap(err, "decoding subjects")
	}
	return std, nil
}

func toRow(std student.Student) (studentRow, error) {
	subjects := std.Subjects
	if subjects == nil {
		subjects = []student.Subject{}
	}
	data, err := json.Marshal(subjects)
	if err != nil {
		return studentRow{}, errors.Wrap(err, "encoding subjects")
	}
	row := studentRow{
		ID:           std.ID,
		Name:         std.Name,
		Email:        std.Email,
		PasswordHash: std.PasswordHash,
		Subjects:     data,
		CreatedAt:    std.CreatedAt,
		UpdatedAt:    std.UpdatedAt,
	}
	if !std.LastLogin.IsZero() {
		row.LastLogin = sql.NullTime{Time: std.LastLogin, Valid: true}
	}
	return row, nil
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	query := `SELECT COUNT(*) FROM student WHERE email = ?`
	args := []interface{}{email}
	if len(excludedStudents) > 0 {
		ids := make([]string, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			ids = append(ids, std.ID)
		}
		q, inArgs, err := sqlx.In(`SELECT COUNT(*) FROM student WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building query")
		}
		query, args = q, inArgs
	}

	var count int
	if err := repo.db.Get(&count, repo.db.Rebind(query), args...); err != nil {
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

	row, err := toRow(std)
	if err != nil {
		return student.Student{}, err
	}
	_, err = repo.db.NamedExec(`
		INSERT INTO student (id, name, email, password_hash, subjects, created_at, updated_at, last_login)
		VALUES (:id, :name, :email, :password_hash, :subjects, :created_at, :updated_at, :last_login)`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, `SELECT * FROM student ORDER BY seq`); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		std, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		students = append(students, std)
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id string) (student.Student, error) {
	return repo.getOne(`SELECT * FROM student WHERE id = $1`, id)
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	return repo.getOne(`SELECT * FROM student WHERE email = $1`, email)
}

func (repo *studentRepository) getOne(query string, arg interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "querying student")
	}
	return row.toEntity()
}

func (repo *studentRepository) UpdateStudent(std student.Student) (student.Student, error) {
	row, err := toRow(std)
	if err != nil {
		return student.Student{}, err
	}
	res, err := repo.db.NamedExec(`
		UPDATE student
		SET name = :name, email = :email, password_hash = :password_hash,
		    subjects = :subjects, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		row,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepository) DeleteAllStudents() error {
	if _, err := repo.db.Exec(`DELETE FROM student`); err != nil {
		return errors.Wrap(err, "clearing students")
	}
	return nil
}
