package dto

// CreateEnrollmentRequest defines payload for enrolling a student in a course.
type CreateEnrollmentRequest struct {
	EtudiantID      NumericID         `json:"etudiantId"`
	CoursID         NumericID         `json:"coursId"`
	AnneeAcademique string            `json:"anneeAcademique"`
	Semestre        Optional[int]     `json:"semestre"`
	Note            Optional[float64] `json:"note"`
}

// UpdateEnrollmentRequest only allows the grade to change.
type UpdateEnrollmentRequest struct {
	Note Optional[float64] `json:"note"`
}

// EnrollmentQuery holds raw list filters taken from the query string.
type EnrollmentQuery struct {
	AnneeAcademique string `form:"anneeAcademique"`
	Semestre        string `form:"semestre"`
	EtudiantID      string `form:"etudiantId"`
	CoursID         string `form:"coursId"`
}
