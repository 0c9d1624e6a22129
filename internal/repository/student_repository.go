package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by last name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if strings.TrimSpace(filter.Nom) != "" {
		args = append(args, likeArg(filter.Nom))
		conditions = append(conditions, fmt.Sprintf("LOWER(nom) LIKE $%d ESCAPE '\\'", len(args)))
	}
	if strings.TrimSpace(filter.Prenom) != "" {
		args = append(args, likeArg(filter.Prenom))
		conditions = append(conditions, fmt.Sprintf("LOWER(prenom) LIKE $%d ESCAPE '\\'", len(args)))
	}
	if strings.TrimSpace(filter.Email) != "" {
		args = append(args, likeArg(filter.Email))
		conditions = append(conditions, fmt.Sprintf("LOWER(email) LIKE $%d ESCAPE '\\'", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM etudiants WHERE %s ORDER BY nom ASC, id ASC",
		strings.Join(studentColumns, ", "), strings.Join(conditions, " AND "))

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID. It returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM etudiants WHERE id = $1", strings.Join(studentColumns, ", "))
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByMatriculeOrEmail returns the first student sharing the matricule or the email,
// excluding excludeID when non-zero. A matricule match is returned before an email match.
func (r *StudentRepository) FindByMatriculeOrEmail(ctx context.Context, matricule, email string, excludeID int64) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM etudiants WHERE (matricule = $1 OR email = $2)", strings.Join(studentColumns, ", "))
	args := []interface{}{matricule, email}
	if excludeID != 0 {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	query += " ORDER BY (matricule = $1) DESC LIMIT 1"

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("check student uniqueness: %w", err)
	}
	return &student, nil
}

// Create inserts a new student and fills its generated identifier and timestamp.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO etudiants (matricule, nom, prenom, date_naissance, email, telephone, adresse)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		student.Matricule, student.Nom, student.Prenom, student.DateNaissance, student.Email, student.Telephone, student.Adresse)
	if err := row.Scan(&student.ID, &student.CreatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites the mutable columns of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE etudiants SET matricule = :matricule, nom = :nom, prenom = :prenom, date_naissance = :date_naissance,
        email = :email, telephone = :telephone, adresse = :adresse WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a student. Its enrollments are removed by the foreign key cascade.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM etudiants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res)
}

// requireAffected maps an update touching no row to sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
