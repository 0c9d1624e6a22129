package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

// EnrollmentRepository manages the enrollment ledger.
type EnrollmentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, now: time.Now}
}

func detailSelect() string {
	return fmt.Sprintf(`SELECT %s, %s, %s FROM inscriptions i
        JOIN etudiants e ON e.id = i.etudiant_id
        JOIN cours c ON c.id = i.cours_id`,
		selectColumns("i", enrollmentColumns),
		nestedColumns("e", "etudiant", studentColumns),
		nestedColumns("c", "cours", courseColumns))
}

// List returns enrollments with their student and course, newest first.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.AnneeAcademique != "" {
		args = append(args, filter.AnneeAcademique)
		conditions = append(conditions, fmt.Sprintf("i.annee_academique = $%d", len(args)))
	}
	if filter.Semestre != 0 {
		args = append(args, filter.Semestre)
		conditions = append(conditions, fmt.Sprintf("i.semestre = $%d", len(args)))
	}
	if filter.EtudiantID != 0 {
		args = append(args, filter.EtudiantID)
		conditions = append(conditions, fmt.Sprintf("i.etudiant_id = $%d", len(args)))
	}
	if filter.CoursID != 0 {
		args = append(args, filter.CoursID)
		conditions = append(conditions, fmt.Sprintf("i.cours_id = $%d", len(args)))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY i.date_inscription DESC, i.id DESC", detailSelect(), strings.Join(conditions, " AND "))

	enrollments := []models.EnrollmentDetail{}
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID fetches a bare enrollment. It returns sql.ErrNoRows when absent.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM inscriptions WHERE id = $1", strings.Join(enrollmentColumns, ", "))
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID fetches an enrollment with its student and course.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, detailSelect()+" WHERE i.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists reports whether an enrollment already covers the given period.
func (r *EnrollmentRepository) Exists(ctx context.Context, key models.EnrollmentKey) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM inscriptions
        WHERE etudiant_id = $1 AND cours_id = $2 AND annee_academique = $3 AND semestre = $4)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, key.EtudiantID, key.CoursID, key.AnneeAcademique, key.Semestre); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Create inserts an enrollment stamped with the current time.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.DateInscription.IsZero() {
		enrollment.DateInscription = r.now().UTC()
	}
	const query = `INSERT INTO inscriptions (etudiant_id, cours_id, annee_academique, semestre, note, date_inscription)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	row := r.db.QueryRowxContext(ctx, query,
		enrollment.EtudiantID, enrollment.CoursID, enrollment.AnneeAcademique, enrollment.Semestre, enrollment.Note, enrollment.DateInscription)
	if err := row.Scan(&enrollment.ID); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// UpdateNote sets or clears the grade of an enrollment.
func (r *EnrollmentRepository) UpdateNote(ctx context.Context, id int64, note *float64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE inscriptions SET note = $1 WHERE id = $2", note, id)
	if err != nil {
		return fmt.Errorf("update enrollment note: %w", err)
	}
	return requireAffected(res)
}

// Delete removes an enrollment.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inscriptions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return requireAffected(res)
}

// ListByStudents loads the enrollments of several students with their course.
func (r *EnrollmentRepository) ListByStudents(ctx context.Context, studentIDs []int64) ([]models.EnrollmentWithCourse, error) {
	enrollments := []models.EnrollmentWithCourse{}
	if len(studentIDs) == 0 {
		return enrollments, nil
	}
	query := fmt.Sprintf(`SELECT %s, %s FROM inscriptions i
        JOIN cours c ON c.id = i.cours_id
        WHERE i.etudiant_id = ANY($1)
        ORDER BY i.date_inscription DESC, i.id DESC`,
		selectColumns("i", enrollmentColumns), nestedColumns("c", "cours", courseColumns))
	if err := r.db.SelectContext(ctx, &enrollments, query, pq.Array(studentIDs)); err != nil {
		return nil, fmt.Errorf("list enrollments by students: %w", err)
	}
	return enrollments, nil
}

// ListByCourses loads the enrollments of several courses with their student.
func (r *EnrollmentRepository) ListByCourses(ctx context.Context, courseIDs []int64) ([]models.EnrollmentWithStudent, error) {
	enrollments := []models.EnrollmentWithStudent{}
	if len(courseIDs) == 0 {
		return enrollments, nil
	}
	query := fmt.Sprintf(`SELECT %s, %s FROM inscriptions i
        JOIN etudiants e ON e.id = i.etudiant_id
        WHERE i.cours_id = ANY($1)
        ORDER BY i.date_inscription DESC, i.id DESC`,
		selectColumns("i", enrollmentColumns), nestedColumns("e", "etudiant", studentColumns))
	if err := r.db.SelectContext(ctx, &enrollments, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list enrollments by courses: %w", err)
	}
	return enrollments, nil
}

func yearCondition(anneeAcademique string) (string, []interface{}) {
	if anneeAcademique == "" {
		return "", nil
	}
	return " WHERE annee_academique = $1", []interface{}{anneeAcademique}
}

// Totals counts enrollments and the distinct students and courses they involve.
func (r *EnrollmentRepository) Totals(ctx context.Context, anneeAcademique string) (models.EnrollmentTotals, error) {
	where, args := yearCondition(anneeAcademique)
	query := `SELECT COUNT(*) AS total_inscriptions,
        COUNT(DISTINCT etudiant_id) AS total_etudiants,
        COUNT(DISTINCT cours_id) AS total_cours
        FROM inscriptions` + where
	var totals models.EnrollmentTotals
	if err := r.db.GetContext(ctx, &totals, query, args...); err != nil {
		return models.EnrollmentTotals{}, fmt.Errorf("count enrollments: %w", err)
	}
	return totals, nil
}

// AverageGrades returns the mean of non-null grades per course, ordered by course.
func (r *EnrollmentRepository) AverageGrades(ctx context.Context, anneeAcademique string) ([]models.CourseAverage, error) {
	where, args := yearCondition(anneeAcademique)
	if where == "" {
		where = " WHERE note IS NOT NULL"
	} else {
		where += " AND note IS NOT NULL"
	}
	query := "SELECT cours_id, AVG(note)::float8 AS moyenne FROM inscriptions" + where + " GROUP BY cours_id ORDER BY cours_id"
	averages := []models.CourseAverage{}
	if err := r.db.SelectContext(ctx, &averages, query, args...); err != nil {
		return nil, fmt.Errorf("average grades: %w", err)
	}
	return averages, nil
}
