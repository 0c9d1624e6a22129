package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/export"
	"github.com/noah-isme/gestion-etudiants-api/pkg/response"
)

type enrollmentService interface {
	ParseFilter(query dto.EnrollmentQuery) (models.EnrollmentFilter, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error)
	Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context, anneeAcademique string) (*models.EnrollmentStats, error)
}

type enrollmentExporter interface {
	EnrollmentsCSV(ctx context.Context, filter models.EnrollmentFilter) ([]byte, error)
}

// EnrollmentHandler exposes the enrollment ledger.
type EnrollmentHandler struct {
	enrollments enrollmentService
	exporter    enrollmentExporter
	now         func() time.Time
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, exporter enrollmentExporter) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, exporter: exporter, now: time.Now}
}

// List godoc
// @Summary List enrollments
// @Tags Inscriptions
// @Produce json
// @Param anneeAcademique query string false "Academic year (YYYY-YYYY)"
// @Param semestre query int false "Semester"
// @Param etudiantId query int false "Student ID"
// @Param coursId query int false "Course ID"
// @Success 200 {array} models.EnrollmentDetail
// @Failure 400 {object} response.ValidationBody
// @Router /inscriptions [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	items, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get enrollment
// @Tags Inscriptions
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} models.EnrollmentDetail
// @Failure 404 {object} response.ErrorBody
// @Router /inscriptions/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgEnrollmentNotFound)
	if !ok {
		return
	}
	item, err := h.enrollments.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Enroll a student in a course
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Param payload body dto.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} models.EnrollmentDetail
// @Failure 400 {object} response.ValidationBody
// @Failure 404 {object} response.ErrorBody
// @Router /inscriptions [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.CreateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update enrollment grade
// @Tags Inscriptions
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body dto.UpdateEnrollmentRequest true "Grade"
// @Success 200 {object} models.EnrollmentDetail
// @Failure 400 {object} response.ValidationBody
// @Failure 404 {object} response.ErrorBody
// @Router /inscriptions/{id} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgEnrollmentNotFound)
	if !ok {
		return
	}
	var req dto.UpdateEnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.enrollments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete enrollment
// @Tags Inscriptions
// @Param id path int true "Enrollment ID"
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /inscriptions/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, msgEnrollmentNotFound)
	if !ok {
		return
	}
	if err := h.enrollments.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats godoc
// @Summary Enrollment statistics
// @Tags Inscriptions
// @Produce json
// @Param anneeAcademique query string false "Academic year (YYYY-YYYY)"
// @Success 200 {object} models.EnrollmentStats
// @Router /inscriptions/stats [get]
func (h *EnrollmentHandler) Stats(c *gin.Context) {
	stats, err := h.enrollments.Stats(c.Request.Context(), c.Query("anneeAcademique"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Export godoc
// @Summary Export enrollments as CSV
// @Tags Inscriptions
// @Produce text/csv
// @Param anneeAcademique query string false "Academic year (YYYY-YYYY)"
// @Param semestre query int false "Semester"
// @Param etudiantId query int false "Student ID"
// @Param coursId query int false "Course ID"
// @Success 200 {file} file
// @Failure 400 {object} response.ValidationBody
// @Router /inscriptions/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}
	data, err := h.exporter.EnrollmentsCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("inscriptions-%s.csv", h.now().Format("20060102"))
	response.Attachment(c, export.ContentTypeCSV, filename, data)
}

func (h *EnrollmentHandler) filter(c *gin.Context) (models.EnrollmentFilter, bool) {
	var query dto.EnrollmentQuery
	_ = c.ShouldBindQuery(&query)
	filter, err := h.enrollments.ParseFilter(query)
	if err != nil {
		response.Error(c, err)
		return models.EnrollmentFilter{}, false
	}
	return filter, true
}
