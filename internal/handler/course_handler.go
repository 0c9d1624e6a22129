package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseWithEnrollments, error)
	Get(ctx context.Context, id int64) (*models.CourseWithEnrollments, error)
	Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithStudent, error)
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Cours
// @Produce json
// @Param intitule query string false "Partial, case-insensitive title"
// @Param professeur query string false "Partial, case-insensitive teacher name"
// @Success 200 {array} models.CourseWithEnrollments
// @Router /cours [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		Intitule:   strings.TrimSpace(c.Query("intitule")),
		Professeur: strings.TrimSpace(c.Query("professeur")),
	}
	courses, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Get godoc
// @Summary Get course with enrollments
// @Tags Cours
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.CourseWithEnrollments
// @Failure 404 {object} response.ErrorBody
// @Router /cours/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgCourseNotFound)
	if !ok {
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Create course
// @Tags Cours
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} models.Course
// @Failure 400 {object} response.ValidationBody
// @Router /cours [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Cours
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} models.Course
// @Failure 400 {object} response.ValidationBody
// @Failure 404 {object} response.ErrorBody
// @Router /cours/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgCourseNotFound)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course without enrollments
// @Tags Cours
// @Param id path int true "Course ID"
// @Success 204
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /cours/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, msgCourseNotFound)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Enrollments godoc
// @Summary List a course's enrollments
// @Tags Cours
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} models.EnrollmentWithStudent
// @Failure 404 {object} response.ErrorBody
// @Router /cours/{id}/inscriptions [get]
func (h *CourseHandler) Enrollments(c *gin.Context) {
	id, ok := parseID(c, msgCourseNotFound)
	if !ok {
		return
	}
	items, err := h.courses.Enrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}
