package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/database"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string, excludeID int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseEnrollmentLoader interface {
	ListByCourses(ctx context.Context, courseIDs []int64) ([]models.EnrollmentWithStudent, error)
}

const (
	msgCourseCodeTaken      = "Un cours avec ce code existe déjà"
	msgOtherCourseCodeTaken = "Un autre cours avec ce code existe déjà"
	msgCourseHasEnrollments = "Impossible de supprimer un cours ayant des inscriptions"
)

// CourseService handles course catalog use-cases.
type CourseService struct {
	repo        courseRepository
	enrollments courseEnrollmentLoader
	validator   *validator.Validate
	invalidator statsInvalidator
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, enrollments courseEnrollmentLoader, validate *validator.Validate, invalidator statsInvalidator, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, enrollments: enrollments, validator: validate, invalidator: invalidator, logger: logger}
}

// List returns courses with their enrollments and students.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseWithEnrollments, error) {
	courses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des cours")
	}
	ids := make([]int64, len(courses))
	for i, course := range courses {
		ids[i] = course.ID
	}
	enrollments, err := s.enrollments.ListByCourses(ctx, ids)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des cours")
	}

	byCourse := make(map[int64][]models.EnrollmentWithStudent, len(courses))
	for _, enrollment := range enrollments {
		byCourse[enrollment.CoursID] = append(byCourse[enrollment.CoursID], enrollment)
	}
	result := make([]models.CourseWithEnrollments, len(courses))
	for i, course := range courses {
		list := byCourse[course.ID]
		if list == nil {
			list = []models.EnrollmentWithStudent{}
		}
		result[i] = models.CourseWithEnrollments{Course: course, Inscriptions: list}
	}
	return result, nil
}

// Get returns a course with its enrollments.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.CourseWithEnrollments, error) {
	course, err := s.find(ctx, id, "Erreur lors de la récupération du cours")
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByCourses(ctx, []int64{id})
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération du cours")
	}
	return &models.CourseWithEnrollments{Course: *course, Inscriptions: enrollments}, nil
}

// Enrollments returns the enrollments of a course, each with its student.
func (s *CourseService) Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithStudent, error) {
	if _, err := s.find(ctx, id, "Erreur lors de la récupération des inscriptions"); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByCourses(ctx, []int64{id})
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des inscriptions")
	}
	return enrollments, nil
}

// Create adds a course to the catalog. Credits default to models.DefaultCredits.
func (s *CourseService) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := check(s.validator,
		rule{"code", req.Code, "required,notblank"},
		rule{"intitule", req.Intitule, "required,notblank"},
		rule{"professeur", req.Professeur, "required,notblank"},
		rule{"credits", req.Credits, "omitempty,gte=0"},
	); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, req.Code, 0)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la création du cours")
	}
	if existing != nil {
		return nil, conflict(msgCourseCodeTaken)
	}

	credits := models.DefaultCredits
	if req.Credits.Valid {
		credits = req.Credits.Value
	}
	course := &models.Course{
		Code:        req.Code,
		Intitule:    req.Intitule,
		Description: req.Description.Ptr(),
		Credits:     credits,
		Professeur:  req.Professeur,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			return nil, conflict(msgCourseCodeTaken)
		}
		return nil, internalError(s.logger, err, "Erreur lors de la création du cours")
	}
	return course, nil
}

// Update applies a partial update to an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	var rules []rule
	if req.Code.Valid {
		rules = append(rules, rule{"code", req.Code.Value, "required,notblank"})
	}
	if req.Intitule.Valid {
		rules = append(rules, rule{"intitule", req.Intitule.Value, "required,notblank"})
	}
	if req.Professeur.Valid {
		rules = append(rules, rule{"professeur", req.Professeur.Value, "required,notblank"})
	}
	rules = append(rules, rule{"credits", req.Credits, "omitempty,gte=0"})
	if err := check(s.validator, rules...); err != nil {
		return nil, err
	}

	current, err := s.find(ctx, id, "Erreur lors de la mise à jour du cours")
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Code.Valid {
		updated.Code = req.Code.Value
	}
	if req.Intitule.Valid {
		updated.Intitule = req.Intitule.Value
	}
	if req.Description.Set {
		updated.Description = req.Description.Ptr()
	}
	if req.Credits.Valid {
		updated.Credits = req.Credits.Value
	}
	if req.Professeur.Valid {
		updated.Professeur = req.Professeur.Value
	}

	if updated.Code != current.Code {
		existing, err := s.repo.FindByCode(ctx, updated.Code, id)
		if err != nil {
			return nil, internalError(s.logger, err, "Erreur lors de la mise à jour du cours")
		}
		if existing != nil {
			return nil, conflict(msgOtherCourseCodeTaken)
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if isNoRows(err) {
			return nil, notFound(msgCourseNotFound)
		}
		if _, ok := database.UniqueViolation(err); ok {
			return nil, conflict(msgOtherCourseCodeTaken)
		}
		return nil, internalError(s.logger, err, "Erreur lors de la mise à jour du cours")
	}
	return &updated, nil
}

// Delete removes a course that has no enrollments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return notFound(msgCourseNotFound)
		}
		if _, ok := database.ForeignKeyViolation(err); ok {
			return conflict(msgCourseHasEnrollments)
		}
		return internalError(s.logger, err, "Erreur lors de la suppression du cours")
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}

func (s *CourseService) find(ctx context.Context, id int64, failure string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound(msgCourseNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}
	return course, nil
}
