package dto

// CreateStudentRequest defines payload for registering a student.
type CreateStudentRequest struct {
	Matricule     string           `json:"matricule"`
	Nom           string           `json:"nom"`
	Prenom        string           `json:"prenom"`
	DateNaissance string           `json:"dateNaissance"`
	Email         string           `json:"email"`
	Telephone     Optional[string] `json:"telephone"`
	Adresse       Optional[string] `json:"adresse"`
}

// UpdateStudentRequest carries a partial student update. Absent keys keep the stored value.
type UpdateStudentRequest struct {
	Matricule     Optional[string] `json:"matricule"`
	Nom           Optional[string] `json:"nom"`
	Prenom        Optional[string] `json:"prenom"`
	DateNaissance Optional[string] `json:"dateNaissance"`
	Email         Optional[string] `json:"email"`
	Telephone     Optional[string] `json:"telephone"`
	Adresse       Optional[string] `json:"adresse"`
}
