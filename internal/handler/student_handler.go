package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/export"
	"github.com/noah-isme/gestion-etudiants-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithEnrollments, error)
	Get(ctx context.Context, id int64) (*models.StudentWithEnrollments, error)
	Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithCourse, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
}

type transcriptRenderer interface {
	Transcript(ctx context.Context, studentID int64) ([]byte, string, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students    studentService
	transcripts transcriptRenderer
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, transcripts transcriptRenderer) *StudentHandler {
	return &StudentHandler{students: students, transcripts: transcripts}
}

// List godoc
// @Summary List students
// @Tags Etudiants
// @Produce json
// @Param nom query string false "Partial, case-insensitive last name"
// @Param prenom query string false "Partial, case-insensitive first name"
// @Param email query string false "Partial, case-insensitive email"
// @Success 200 {array} models.StudentWithEnrollments
// @Router /etudiants [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Nom:    strings.TrimSpace(c.Query("nom")),
		Prenom: strings.TrimSpace(c.Query("prenom")),
		Email:  strings.TrimSpace(c.Query("email")),
	}
	students, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get student with enrollments
// @Tags Etudiants
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.StudentWithEnrollments
// @Failure 404 {object} response.ErrorBody
// @Router /etudiants/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgStudentNotFound)
	if !ok {
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Etudiants
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} models.Student
// @Failure 400 {object} response.ValidationBody
// @Router /etudiants [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Etudiants
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} models.Student
// @Failure 400 {object} response.ValidationBody
// @Failure 404 {object} response.ErrorBody
// @Router /etudiants/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgStudentNotFound)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student and their enrollments
// @Tags Etudiants
// @Param id path int true "Student ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /etudiants/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, msgStudentNotFound)
	if !ok {
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enrollments godoc
// @Summary List a student's enrollments
// @Tags Etudiants
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} models.EnrollmentWithCourse
// @Failure 404 {object} response.ErrorBody
// @Router /etudiants/{id}/inscriptions [get]
func (h *StudentHandler) Enrollments(c *gin.Context) {
	id, ok := parseID(c, msgStudentNotFound)
	if !ok {
		return
	}
	items, err := h.students.Enrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Transcript godoc
// @Summary Download a student's transcript
// @Tags Etudiants
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorBody
// @Router /etudiants/{id}/releve [get]
func (h *StudentHandler) Transcript(c *gin.Context) {
	id, ok := parseID(c, msgStudentNotFound)
	if !ok {
		return
	}
	data, filename, err := h.transcripts.Transcript(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, export.ContentTypePDF, filename, data)
}
