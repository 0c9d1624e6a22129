package database

import (
	"errors"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names declared in migrations/001_init.sql.
const (
	ConstraintStudentMatricule  = "etudiants_matricule_key"
	ConstraintStudentEmail      = "etudiants_email_key"
	ConstraintCourseCode        = "cours_code_key"
	ConstraintEnrollmentPeriod  = "inscriptions_periode_key"
	ConstraintEnrollmentStudent = "inscriptions_etudiant_id_fkey"
	ConstraintEnrollmentCourse  = "inscriptions_cours_id_fkey"
)

// UniqueViolation reports the constraint name when err is a unique_violation.
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == codeUniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// ForeignKeyViolation reports the constraint name when err is a foreign_key_violation.
func ForeignKeyViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == codeForeignKeyViolation {
		return pqErr.Constraint, true
	}
	return "", false
}
