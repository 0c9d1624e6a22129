package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/database"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByMatriculeOrEmail(ctx context.Context, matricule, email string, excludeID int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type studentEnrollmentLoader interface {
	ListByStudents(ctx context.Context, studentIDs []int64) ([]models.EnrollmentWithCourse, error)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context)
}

const (
	msgStudentMatriculeTaken      = "Un étudiant avec ce matricule existe déjà"
	msgStudentEmailTaken          = "Un étudiant avec cet email existe déjà"
	msgOtherStudentMatriculeTaken = "Un autre étudiant avec ce matricule existe déjà"
	msgOtherStudentEmailTaken     = "Un autre étudiant avec cet email existe déjà"
)

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentLoader
	validator   *validator.Validate
	invalidator statsInvalidator
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentLoader, validate *validator.Validate, invalidator statsInvalidator, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validate, invalidator: invalidator, logger: logger}
}

// List returns students with their enrollments and courses.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithEnrollments, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des étudiants")
	}
	ids := make([]int64, len(students))
	for i, student := range students {
		ids[i] = student.ID
	}
	enrollments, err := s.enrollments.ListByStudents(ctx, ids)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des étudiants")
	}

	byStudent := make(map[int64][]models.EnrollmentWithCourse, len(students))
	for _, enrollment := range enrollments {
		byStudent[enrollment.EtudiantID] = append(byStudent[enrollment.EtudiantID], enrollment)
	}
	result := make([]models.StudentWithEnrollments, len(students))
	for i, student := range students {
		list := byStudent[student.ID]
		if list == nil {
			list = []models.EnrollmentWithCourse{}
		}
		result[i] = models.StudentWithEnrollments{Student: student, Inscriptions: list}
	}
	return result, nil
}

// Get returns a student with its enrollments.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentWithEnrollments, error) {
	student, err := s.find(ctx, id, "Erreur lors de la récupération de l'étudiant")
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByStudents(ctx, []int64{id})
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération de l'étudiant")
	}
	return &models.StudentWithEnrollments{Student: *student, Inscriptions: enrollments}, nil
}

// Enrollments returns the enrollments of a student, each with its course.
func (s *StudentService) Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithCourse, error) {
	if _, err := s.find(ctx, id, "Erreur lors de la récupération des inscriptions"); err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.ListByStudents(ctx, []int64{id})
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la récupération des inscriptions")
	}
	return enrollments, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := check(s.validator,
		rule{"matricule", req.Matricule, "required,notblank"},
		rule{"nom", req.Nom, "required,notblank"},
		rule{"prenom", req.Prenom, "required,notblank"},
		rule{"dateNaissance", req.DateNaissance, "required,notblank,date_str"},
		rule{"email", req.Email, "required,notblank,email_basic"},
	); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByMatriculeOrEmail(ctx, req.Matricule, req.Email, 0)
	if err != nil {
		return nil, internalError(s.logger, err, "Erreur lors de la création de l'étudiant")
	}
	if existing != nil {
		if existing.Matricule == req.Matricule {
			return nil, conflict(msgStudentMatriculeTaken)
		}
		return nil, conflict(msgStudentEmailTaken)
	}

	birth, _ := parseDate(req.DateNaissance)
	student := &models.Student{
		Matricule:     req.Matricule,
		Nom:           req.Nom,
		Prenom:        req.Prenom,
		DateNaissance: birth,
		Email:         req.Email,
		Telephone:     req.Telephone.Ptr(),
		Adresse:       req.Adresse.Ptr(),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if mapped := studentUniqueConflict(err, false); mapped != nil {
			return nil, mapped
		}
		return nil, internalError(s.logger, err, "Erreur lors de la création de l'étudiant")
	}
	return student, nil
}

// Update applies a partial update to an existing student.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	var rules []rule
	if req.Matricule.Valid {
		rules = append(rules, rule{"matricule", req.Matricule.Value, "required,notblank"})
	}
	if req.Nom.Valid {
		rules = append(rules, rule{"nom", req.Nom.Value, "required,notblank"})
	}
	if req.Prenom.Valid {
		rules = append(rules, rule{"prenom", req.Prenom.Value, "required,notblank"})
	}
	if req.DateNaissance.Valid {
		rules = append(rules, rule{"dateNaissance", req.DateNaissance.Value, "required,notblank,date_str"})
	}
	if req.Email.Valid {
		rules = append(rules, rule{"email", req.Email.Value, "required,notblank,email_basic"})
	}
	if err := check(s.validator, rules...); err != nil {
		return nil, err
	}

	current, err := s.find(ctx, id, "Erreur lors de la mise à jour de l'étudiant")
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Matricule.Valid {
		updated.Matricule = req.Matricule.Value
	}
	if req.Nom.Valid {
		updated.Nom = req.Nom.Value
	}
	if req.Prenom.Valid {
		updated.Prenom = req.Prenom.Value
	}
	if req.DateNaissance.Valid {
		updated.DateNaissance, _ = parseDate(req.DateNaissance.Value)
	}
	if req.Email.Valid {
		updated.Email = req.Email.Value
	}
	if req.Telephone.Set {
		updated.Telephone = req.Telephone.Ptr()
	}
	if req.Adresse.Set {
		updated.Adresse = req.Adresse.Ptr()
	}

	if updated.Matricule != current.Matricule || updated.Email != current.Email {
		existing, err := s.repo.FindByMatriculeOrEmail(ctx, updated.Matricule, updated.Email, id)
		if err != nil {
			return nil, internalError(s.logger, err, "Erreur lors de la mise à jour de l'étudiant")
		}
		if existing != nil {
			if existing.Matricule == updated.Matricule {
				return nil, conflict(msgOtherStudentMatriculeTaken)
			}
			return nil, conflict(msgOtherStudentEmailTaken)
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if isNoRows(err) {
			return nil, notFound(msgStudentNotFound)
		}
		if mapped := studentUniqueConflict(err, true); mapped != nil {
			return nil, mapped
		}
		return nil, internalError(s.logger, err, "Erreur lors de la mise à jour de l'étudiant")
	}
	return &updated, nil
}

// Delete removes a student together with its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNoRows(err) {
			return notFound(msgStudentNotFound)
		}
		return internalError(s.logger, err, "Erreur lors de la suppression de l'étudiant")
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	return nil
}

func (s *StudentService) find(ctx context.Context, id int64, failure string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, notFound(msgStudentNotFound)
		}
		return nil, internalError(s.logger, err, failure)
	}
	return student, nil
}

// studentUniqueConflict translates a unique violation raised by the database.
func studentUniqueConflict(err error, other bool) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch {
	case constraint == database.ConstraintStudentEmail && other:
		return conflict(msgOtherStudentEmailTaken)
	case constraint == database.ConstraintStudentEmail:
		return conflict(msgStudentEmailTaken)
	case other:
		return conflict(msgOtherStudentMatriculeTaken)
	default:
		return conflict(msgStudentMatriculeTaken)
	}
}
