package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

// CourseRepository manages persistence for the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// List returns courses matching the provided filters ordered by title.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if strings.TrimSpace(filter.Intitule) != "" {
		args = append(args, likeArg(filter.Intitule))
		conditions = append(conditions, fmt.Sprintf("LOWER(intitule) LIKE $%d ESCAPE '\\'", len(args)))
	}
	if strings.TrimSpace(filter.Professeur) != "" {
		args = append(args, likeArg(filter.Professeur))
		conditions = append(conditions, fmt.Sprintf("LOWER(professeur) LIKE $%d ESCAPE '\\'", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM cours WHERE %s ORDER BY intitule ASC, id ASC",
		strings.Join(courseColumns, ", "), strings.Join(conditions, " AND "))

	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by ID. It returns sql.ErrNoRows when absent.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE id = $1", strings.Join(courseColumns, ", "))
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCode returns the course using code, excluding excludeID when non-zero.
func (r *CourseRepository) FindByCode(ctx context.Context, code string, excludeID int64) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM cours WHERE code = $1", strings.Join(courseColumns, ", "))
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}

	var course models.Course
	if err := r.db.GetContext(ctx, &course, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("check course code: %w", err)
	}
	return &course, nil
}

// Create inserts a new course and fills its generated identifier and timestamp.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO cours (code, intitule, description, credits, professeur)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, course.Code, course.Intitule, course.Description, course.Credits, course.Professeur)
	if err := row.Scan(&course.ID, &course.CreatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE cours SET code = :code, intitule = :intitule, description = :description,
        credits = :credits, professeur = :professeur WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a course. The foreign key rejects courses that still have enrollments.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cours WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireAffected(res)
}
