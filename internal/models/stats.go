package models

// CourseAverage is the mean grade of one course.
type CourseAverage struct {
	CoursID int64   `db:"cours_id" json:"coursId"`
	Moyenne float64 `db:"moyenne" json:"moyenne"`
}

// EnrollmentTotals holds the counters of the statistics endpoint.
type EnrollmentTotals struct {
	TotalInscriptions int64 `db:"total_inscriptions"`
	TotalEtudiants    int64 `db:"total_etudiants"`
	TotalCours        int64 `db:"total_cours"`
}

// EnrollmentStats aggregates the enrollment ledger.
type EnrollmentStats struct {
	TotalInscriptions int64           `json:"totalInscriptions"`
	TotalEtudiants    int64           `json:"totalEtudiants"`
	TotalCours        int64           `json:"totalCours"`
	MoyenneNotes      []CourseAverage `json:"moyenneNotes"`
}
