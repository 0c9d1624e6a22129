package dto

// CreateCourseRequest defines payload for adding a course to the catalog.
type CreateCourseRequest struct {
	Code        string           `json:"code"`
	Intitule    string           `json:"intitule"`
	Description Optional[string] `json:"description"`
	Credits     Optional[int]    `json:"credits"`
	Professeur  string           `json:"professeur"`
}

// UpdateCourseRequest carries a partial course update.
type UpdateCourseRequest struct {
	Code        Optional[string] `json:"code"`
	Intitule    Optional[string] `json:"intitule"`
	Description Optional[string] `json:"description"`
	Credits     Optional[int]    `json:"credits"`
	Professeur  Optional[string] `json:"professeur"`
}
