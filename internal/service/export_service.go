package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/export"
)

type enrollmentLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	ListByStudents(ctx context.Context, studentIDs []int64) ([]models.EnrollmentWithCourse, error)
}

// ExportService renders transcripts and enrollment exports.
type ExportService struct {
	students    studentLookup
	enrollments enrollmentLister
	pdf         *export.PDFExporter
	csv         *export.CSVExporter
	logger      *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(students studentLookup, enrollments enrollmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students:    students,
		enrollments: enrollments,
		pdf:         export.NewPDFExporter(),
		csv:         export.NewCSVExporter(),
		logger:      logger,
	}
}

var transcriptHeaders = []string{"Code", "Intitulé", "Année", "Semestre", "Crédits", "Note"}

// Transcript renders the grade transcript of a student as a PDF and returns it with a file name.
func (s *ExportService) Transcript(ctx context.Context, studentID int64) ([]byte, string, error) {
	const failure = "Erreur lors de la génération du relevé"
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if isNoRows(err) {
			return nil, "", notFound(msgStudentNotFound)
		}
		return nil, "", internalError(s.logger, err, failure)
	}
	enrollments, err := s.enrollments.ListByStudents(ctx, []int64{studentID})
	if err != nil {
		return nil, "", internalError(s.logger, err, failure)
	}

	rows := make([]map[string]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, map[string]string{
			"Code":     e.Cours.Code,
			"Intitulé": e.Cours.Intitule,
			"Année":    e.AnneeAcademique,
			"Semestre": strconv.Itoa(e.Semestre),
			"Crédits":  strconv.Itoa(e.Cours.Credits),
			"Note":     formatNote(e.Note),
		})
	}

	footer := "Moyenne pondérée : -"
	if avg, ok := WeightedAverage(enrollments); ok {
		footer = fmt.Sprintf("Moyenne pondérée : %.2f / 20", avg)
	}
	doc := export.Document{
		Title: "Relevé de notes",
		Lines: []string{
			fmt.Sprintf("Étudiant : %s %s", student.Nom, student.Prenom),
			fmt.Sprintf("Matricule : %s", student.Matricule),
			fmt.Sprintf("Date de naissance : %s", student.DateNaissance.Format("02/01/2006")),
		},
		Table:  export.Dataset{Headers: transcriptHeaders, Rows: rows},
		Widths: []float64{25, 70, 25, 20, 20, 30},
		Footer: []string{footer},
	}
	out, err := s.pdf.Render(doc)
	if err != nil {
		return nil, "", internalError(s.logger, err, failure)
	}
	return out, fmt.Sprintf("releve-%s.pdf", student.Matricule), nil
}

var enrollmentExportHeaders = []string{"id", "matricule", "nom", "prenom", "code", "intitule", "anneeAcademique", "semestre", "note", "dateInscription"}

// EnrollmentsCSV exports the enrollments matching filter.
func (s *ExportService) EnrollmentsCSV(ctx context.Context, filter models.EnrollmentFilter) ([]byte, error) {
	const failure = "Erreur lors de l'export des inscriptions"
	enrollments, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	rows := make([]map[string]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, map[string]string{
			"id":              strconv.FormatInt(e.ID, 10),
			"matricule":       e.Etudiant.Matricule,
			"nom":             e.Etudiant.Nom,
			"prenom":          e.Etudiant.Prenom,
			"code":            e.Cours.Code,
			"intitule":        e.Cours.Intitule,
			"anneeAcademique": e.AnneeAcademique,
			"semestre":        strconv.Itoa(e.Semestre),
			"note":            formatNote(e.Note),
			"dateInscription": e.DateInscription.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	out, err := s.csv.Render(export.Dataset{Headers: enrollmentExportHeaders, Rows: rows})
	if err != nil {
		return nil, internalError(s.logger, err, failure)
	}
	return out, nil
}

// WeightedAverage computes the credit-weighted mean of graded enrollments.
// Courses without credits or without a grade are ignored.
func WeightedAverage(enrollments []models.EnrollmentWithCourse) (float64, bool) {
	var sum, weight float64
	for _, e := range enrollments {
		if e.Note == nil || e.Cours.Credits <= 0 {
			continue
		}
		sum += *e.Note * float64(e.Cours.Credits)
		weight += float64(e.Cours.Credits)
	}
	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

func formatNote(note *float64) string {
	if note == nil {
		return ""
	}
	return strconv.FormatFloat(*note, 'f', -1, 64)
}
