package models

import "time"

// DefaultCredits applies when a course is created without credits.
const DefaultCredits = 3

// Course is an entry of the course catalog.
type Course struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Intitule    string    `db:"intitule" json:"intitule"`
	Description *string   `db:"description" json:"description"`
	Credits     int       `db:"credits" json:"credits"`
	Professeur  string    `db:"professeur" json:"professeur"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// CourseFilter encapsulates allowed search parameters for listing courses.
type CourseFilter struct {
	Intitule   string `form:"intitule"`
	Professeur string `form:"professeur"`
}

// CourseWithEnrollments is a course together with its enrollments and their students.
type CourseWithEnrollments struct {
	Course
	Inscriptions []EnrollmentWithStudent `json:"inscriptions"`
}
