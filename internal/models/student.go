package models

import "time"

// Student is a learner registered in the institution.
type Student struct {
	ID            int64     `db:"id" json:"id"`
	Matricule     string    `db:"matricule" json:"matricule"`
	Nom           string    `db:"nom" json:"nom"`
	Prenom        string    `db:"prenom" json:"prenom"`
	DateNaissance time.Time `db:"date_naissance" json:"dateNaissance"`
	Email         string    `db:"email" json:"email"`
	Telephone     *string   `db:"telephone" json:"telephone"`
	Adresse       *string   `db:"adresse" json:"adresse"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Nom    string `form:"nom"`
	Prenom string `form:"prenom"`
	Email  string `form:"email"`
}

// StudentWithEnrollments is a student together with its enrollments and their courses.
type StudentWithEnrollments struct {
	Student
	Inscriptions []EnrollmentWithCourse `json:"inscriptions"`
}
