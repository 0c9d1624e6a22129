package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/database"
	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	Exists(ctx context.Context, key models.EnrollmentKey) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateNote(ctx context.Context, id int64, note *float64) error
	Delete(ctx context.Context, id int64) error
	Totals(ctx context.Context, anneeAcademique string) (models.EnrollmentTotals, error)
	AverageGrades(ctx context.Context, anneeAcademique string) ([]models.CourseAverage, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type courseLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type statsPublisher interface {
	statsInvalidator
	Generation() uint64
	Publish(ctx context.Context, key string, stats interface{}, ttl time.Duration, generation uint64)
}

const msgEnrollmentDuplicate = "Cet étudiant est déjà inscrit à ce cours pour cette année et ce semestre"

// EnrollmentService handles the enrollment ledger and its statistics.
type EnrollmentService struct {
	repo        enrollmentRepository
	students    studentLookup
	courses     courseLookup
	validator   *validator.Validate
	cache       *CacheService
	invalidator statsPublisher
	metrics     *MetricsService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// EnrollmentServiceDeps groups the collaborators of EnrollmentService.
type EnrollmentServiceDeps struct {
	Repo        enrollmentRepository
	Students    studentLookup
	Courses     courseLookup
	Validator   *validator.Validate
	Cache       *CacheService
	Invalidator statsPublisher
	Metrics     *MetricsService
	CacheTTL    time.Duration
	Logger      *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(deps EnrollmentServiceDeps) *EnrollmentService {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:        deps.Repo,
		students:    deps.Students,
		courses:     deps.Courses,
		validator:   deps.Validator,
		cache:       deps.Cache,
		invalidator: deps.Invalidator,
		metrics:     deps.Metrics,
		cacheTTL:    deps.CacheTTL,
		logger:      deps.Logger,
	}
}

// ParseFilter converts raw query parameters into a filter. Numeric parameters must parse.
func (s *EnrollmentService) ParseFilter(query dto.EnrollmentQuery) (models.EnrollmentFilter, error) {
	filter := models.EnrollmentFilter{AnneeAcademique: strings.TrimSpace(query.AnneeAcademique)}
	var details []string

	if raw := strings.TrimSpace(query.Semestre); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, messageFor("semestre", ""))
		}
		filter.Semestre = value
	}
	if raw := strings.TrimSpace(query.EtudiantID); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			details = append(details, messageFor("etudiantId", ""))
		}
		filter.EtudiantID = value
	}
	if raw := strings.TrimSpace(query.CoursID); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			details = append(details, messageFor("coursId", ""))
		}
		filter.CoursID = value
	}
	if len(details) > 0 {
		return models.EnrollmentFilter{}, appErrors.Validation(details...)
	}
	return filter, nil
}

// List returns enrollments matching filter, newest first.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	enrollments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des inscriptions")
	}
	return enrollments, nil
}

// Get returns an enrollment with its student and course.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound(msgEnrollmentNotFound)
		}
		return nil, internalError(s.logger, err, "Erreur lors de la récupération de l'inscription")
	}
	return detail, nil
}

// Create enrolls a student in a course for an academic year and semester.
func (s *EnrollmentService) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	rules := []rule{
		{"etudiantId", req.EtudiantID, "required,gt=0"},
		{"coursId", req.CoursID, "required,gt=0"},
		{"anneeAcademique", req.AnneeAcademique, "required,notblank,academic_year"},
		{"semestre", req.Semestre, "omitempty,oneof=1 2"},
		{"note", req.Note, "omitempty,gte=0,lte=20"},
	}
	if err := check(s.validator, rules...); err != nil {
		return nil, err
	}

	const failure = "Erreur lors de la création de l'inscription"
	if _, err := s.students.FindByID(ctx, req.EtudiantID.Value); err != nil {
		if isNoRows(err) {
			return nil, notFound(msgStudentNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}
	if _, err := s.courses.FindByID(ctx, req.CoursID.Value); err != nil {
		if isNoRows(err) {
			return nil, notFound(msgCourseNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}

	semestre := models.DefaultSemester
	if req.Semestre.Valid && req.Semestre.Value != 0 {
		semestre = req.Semestre.Value
	}
	key := models.EnrollmentKey{
		EtudiantID:      req.EtudiantID.Value,
		CoursID:         req.CoursID.Value,
		AnneeAcademique: req.AnneeAcademique,
		Semestre:        semestre,
	}
	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	if exists {
		return nil, conflict(msgEnrollmentDuplicate)
	}

	enrollment := &models.Enrollment{
		EtudiantID:      key.EtudiantID,
		CoursID:         key.CoursID,
		AnneeAcademique: key.AnneeAcademique,
		Semestre:        key.Semestre,
		Note:            req.Note.Ptr(),
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, conflict(msgEnrollmentDuplicate)
		}
		if constraint, ok := database.ForeignKeyViolation(err); ok {
			if constraint == database.ConstraintEnrollmentCourse {
				return nil, notFound(msgCourseNotFound)
			}
			return nil, notFound(msgStudentNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}
	s.invalidate(ctx)

	detail, err := s.repo.FindDetailByID(ctx, enrollment.ID)
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	return detail, nil
}

// Update changes the grade of an enrollment. Only the note is mutable.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := check(s.validator, rule{"note", req.Note, "omitempty,gte=0,lte=20"}); err != nil {
		return nil, err
	}

	const failure = "Erreur lors de la mise à jour de l'inscription"
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if isNoRows(err) {
			return nil, notFound(msgEnrollmentNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}

	if req.Note.Set {
		if err := s.repo.UpdateNote(ctx, id, req.Note.Ptr()); err != nil {
			if isNoRows(err) {
				return nil, notFound(msgEnrollmentNotFound)
			}
			return nil, internalError(s.logger, err, failure)
		}
		s.invalidate(ctx)
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound(msgEnrollmentNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}
	return detail, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return notFound(msgEnrollmentNotFound)
		}
		return internalError(s.logger, err, "Erreur lors de la suppression de l'inscription")
	}
	s.invalidate(ctx)
	return nil
}

// Stats aggregates the ledger, optionally restricted to one academic year.
func (s *EnrollmentService) Stats(ctx context.Context, anneeAcademique string) (*models.EnrollmentStats, error) {
	anneeAcademique = strings.TrimSpace(anneeAcademique)
	key := statsCacheKey(anneeAcademique)

	var cached models.EnrollmentStats
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		if cached.MoyenneNotes == nil {
			cached.MoyenneNotes = []models.CourseAverage{}
		}
		return &cached, nil
	}

	const failure = "Erreur lors du calcul des statistiques"
	generation := s.generation()
	start := time.Now()
	totals, err := s.repo.Totals(ctx, anneeAcademique)
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	averages, err := s.repo.AverageGrades(ctx, anneeAcademique)
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	s.metrics.ObserveDBQuery("enrollment_stats", time.Since(start))

	if averages == nil {
		averages = []models.CourseAverage{}
	}
	stats := &models.EnrollmentStats{
		TotalInscriptions: totals.TotalInscriptions,
		TotalEtudiants:    totals.TotalEtudiants,
		TotalCours:        totals.TotalCours,
		MoyenneNotes:      averages,
	}
	s.publish(ctx, key, stats, generation)
	return stats, nil
}

func (s *EnrollmentService) generation() uint64 {
	if s.invalidator == nil {
		return 0
	}
	return s.invalidator.Generation()
}

func (s *EnrollmentService) publish(ctx context.Context, key string, stats *models.EnrollmentStats, generation uint64) {
	if s.invalidator == nil {
		_ = s.cache.Set(ctx, key, stats, s.cacheTTL)
		return
	}
	s.invalidator.Publish(ctx, key, stats, s.cacheTTL, generation)
}

func (s *EnrollmentService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
}
