package models

import "time"

// Semester values accepted for an enrollment.
const (
	SemesterFirst   = 1
	SemesterSecond  = 2
	DefaultSemester = SemesterFirst
)

// Grade bounds on the French 0-20 scale.
const (
	MinGrade = 0.0
	MaxGrade = 20.0
)

// Enrollment links a student to a course for an academic year and semester.
type Enrollment struct {
	ID              int64     `db:"id" json:"id"`
	EtudiantID      int64     `db:"etudiant_id" json:"etudiantId"`
	CoursID         int64     `db:"cours_id" json:"coursId"`
	AnneeAcademique string    `db:"annee_academique" json:"anneeAcademique"`
	Semestre        int       `db:"semestre" json:"semestre"`
	Note            *float64  `db:"note" json:"note"`
	DateInscription time.Time `db:"date_inscription" json:"dateInscription"`
}

// EnrollmentWithCourse is an enrollment seen from its student.
type EnrollmentWithCourse struct {
	Enrollment
	Cours Course `db:"cours" json:"cours"`
}

// EnrollmentWithStudent is an enrollment seen from its course.
type EnrollmentWithStudent struct {
	Enrollment
	Etudiant Student `db:"etudiant" json:"etudiant"`
}

// EnrollmentDetail carries both sides of the association.
type EnrollmentDetail struct {
	Enrollment
	Etudiant Student `db:"etudiant" json:"etudiant"`
	Cours    Course  `db:"cours" json:"cours"`
}

// EnrollmentFilter narrows enrollment listings. Zero values are ignored.
type EnrollmentFilter struct {
	AnneeAcademique string
	Semestre        int
	EtudiantID      int64
	CoursID         int64
}

// EnrollmentKey identifies an enrollment period for uniqueness checks.
type EnrollmentKey struct {
	EtudiantID      int64
	CoursID         int64
	AnneeAcademique string
	Semestre        int
}
