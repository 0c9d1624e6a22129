package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

func TestStudentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	birth := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM etudiants WHERE 1=1 AND LOWER(nom) LIKE $1 ESCAPE '\\' AND LOWER(email) LIKE $2 ESCAPE '\\' ORDER BY nom ASC, id ASC")).
		WithArgs("%dup%", "%@x.com%").
		WillReturnRows(studentRows().AddRow(1, "ETU001", "Dupont", "Jean", birth, "jean@x.com", nil, nil, time.Now()))

	students, err := repo.List(context.Background(), models.StudentFilter{Nom: "Dup", Email: "@X.com"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ETU001", students[0].Matricule)
	assert.Nil(t, students[0].Telephone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEmptyIsNotNil(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("FROM etudiants WHERE 1=1 ORDER BY").WillReturnRows(studentRows())

	students, err := repo.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
}

func TestStudentRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM etudiants WHERE id = $1")).WithArgs(int64(9)).WillReturnRows(studentRows())

	_, err := repo.FindByID(context.Background(), 9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryFindByMatriculeOrEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (matricule = $1 OR email = $2) AND id <> $3 ORDER BY (matricule = $1) DESC LIMIT 1")).
		WithArgs("ETU001", "jean@x.com", int64(4)).
		WillReturnRows(studentRows())

	found, err := repo.FindByMatriculeOrEmail(context.Background(), "ETU001", "jean@x.com", 4)
	require.NoError(t, err)
	assert.Nil(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO etudiants").
		WithArgs("ETU001", "Dupont", "Jean", sqlmock.AnyArg(), "jean@x.com", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))

	student := &models.Student{Matricule: "ETU001", Nom: "Dupont", Prenom: "Jean", DateNaissance: time.Now(), Email: "jean@x.com"}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.Equal(t, int64(1), student.ID)
	assert.Equal(t, created, student.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE etudiants SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Student{ID: 3})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM etudiants WHERE id = $1")).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM etudiants WHERE id = $1")).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 2))
	assert.ErrorIs(t, repo.Delete(context.Background(), 3), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteBeyondInt32(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM etudiants WHERE id = $1")).WithArgs(int64(3000000000)).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 3000000000), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListEscapesWildcards(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(prenom) LIKE $1 ESCAPE '\\'")).
		WithArgs(`%jean\_%`).
		WillReturnRows(studentRows())

	students, err := repo.List(context.Background(), models.StudentFilter{Prenom: "Jean_"})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
