package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

func detailColumns() []string {
	cols := append([]string{}, enrollmentColumns...)
	for _, c := range studentColumns {
		cols = append(cols, "etudiant."+c)
	}
	for _, c := range courseColumns {
		cols = append(cols, "cours."+c)
	}
	return cols
}

func TestEnrollmentRepositoryListScansNestedRecords(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	note := 14.5
	rows := sqlmock.NewRows(detailColumns()).AddRow(
		10, 1, 2, "2023-2024", 1, note, now,
		1, "ETU001", "Dupont", "Jean", now, "jean@x.com", nil, nil, now,
		2, "INF101", "Algorithmique", nil, 4, "Martin", now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND i.annee_academique = $1 AND i.semestre = $2 AND i.cours_id = $3 ORDER BY i.date_inscription DESC, i.id DESC")).
		WithArgs("2023-2024", 1, int64(2)).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.EnrollmentFilter{AnneeAcademique: "2023-2024", Semestre: 1, CoursID: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dupont", list[0].Etudiant.Nom)
	assert.Equal(t, "INF101", list[0].Cours.Code)
	require.NotNil(t, list[0].Note)
	assert.Equal(t, 14.5, *list[0].Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(1), int64(2), "2023-2024", 1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), models.EnrollmentKey{EtudiantID: 1, CoursID: 2, AnneeAcademique: "2023-2024", Semestre: 1})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEnrollmentRepositoryCreateStampsDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)
	fixed := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	mock.ExpectQuery("INSERT INTO inscriptions").
		WithArgs(int64(1), int64(2), "2023-2024", 2, nil, fixed).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	enrollment := &models.Enrollment{EtudiantID: 1, CoursID: 2, AnneeAcademique: "2023-2024", Semestre: 2}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.Equal(t, int64(5), enrollment.ID)
	assert.Equal(t, fixed, enrollment.DateInscription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateNoteClears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE inscriptions SET note = $1 WHERE id = $2")).
		WithArgs(nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateNote(context.Background(), 3, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByStudentsSkipsEmpty(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	list, err := repo.ListByStudents(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByCourses(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	cols := append([]string{}, enrollmentColumns...)
	for _, c := range studentColumns {
		cols = append(cols, "etudiant."+c)
	}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE i.cours_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			10, 1, 2, "2023-2024", 1, nil, now,
			1, "ETU001", "Dupont", "Jean", now, "jean@x.com", nil, nil, now,
		))

	list, err := repo.ListByCourses(context.Background(), []int64{2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].CoursID)
	assert.Equal(t, "ETU001", list[0].Etudiant.Matricule)
}

func TestEnrollmentRepositoryAggregates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM inscriptions WHERE annee_academique = $1")).
		WithArgs("2023-2024").
		WillReturnRows(sqlmock.NewRows([]string{"total_inscriptions", "total_etudiants", "total_cours"}).AddRow(3, 2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM inscriptions WHERE note IS NOT NULL GROUP BY cours_id ORDER BY cours_id")).
		WillReturnRows(sqlmock.NewRows([]string{"cours_id", "moyenne"}).AddRow(1, 14.0))

	totals, err := repo.Totals(context.Background(), "2023-2024")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentTotals{TotalInscriptions: 3, TotalEtudiants: 2, TotalCours: 1}, totals)

	averages, err := repo.AverageGrades(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []models.CourseAverage{{CoursID: 1, Moyenne: 14}}, averages)
	assert.NoError(t, mock.ExpectationsWereMet())
}
