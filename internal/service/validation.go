package service

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
)

const (
	tagNotBlank     = "notblank"
	tagEmail        = "email_basic"
	tagDate         = "date_str"
	tagAcademicYear = "academic_year"
)

var (
	emailPattern        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

// validationMessages maps a JSON field and a failed tag to the message returned to clients.
// The "*" entry applies to any tag without a dedicated message.
var validationMessages = map[string]map[string]string{
	"matricule":       {"*": "Le matricule est requis"},
	"nom":             {"*": "Le nom est requis"},
	"prenom":          {"*": "Le prénom est requis"},
	"dateNaissance":   {"*": "La date de naissance est requise", tagDate: "La date de naissance n'est pas valide"},
	"email":           {"*": "L'email est requis", tagEmail: "L'email n'est pas valide"},
	"code":            {"*": "Le code du cours est requis"},
	"intitule":        {"*": "L'intitulé du cours est requis"},
	"professeur":      {"*": "Le nom du professeur est requis"},
	"credits":         {"*": "Le nombre de crédits doit être positif"},
	"etudiantId":      {"*": "L'ID de l'étudiant est requis et doit être un nombre"},
	"coursId":         {"*": "L'ID du cours est requis et doit être un nombre"},
	"anneeAcademique": {"*": "L'année académique est requise", tagAcademicYear: "L'année académique doit être au format YYYY-YYYY"},
	"semestre":        {"*": "Le semestre doit être 1 ou 2"},
	"note":            {"*": "La note doit être entre 0 et 20"},
	"password":        {"*": "Le mot de passe est requis"},
}

// NewValidator returns a validator carrying the custom tags used by the services.
func NewValidator() *validator.Validate {
	v := validator.New()
	registerValidations(v)
	return v
}

func registerValidations(v *validator.Validate) {
	_ = v.RegisterValidation(tagNotBlank, validators.NotBlank)
	_ = v.RegisterValidation(tagEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagDate, func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(tagAcademicYear, func(fl validator.FieldLevel) bool {
		return academicYearPattern.MatchString(fl.Field().String())
	})
	v.RegisterCustomTypeFunc(optionalValue,
		dto.Optional[string]{}, dto.Optional[int]{}, dto.Optional[float64]{}, dto.NumericID{})
}

type validationValuer interface {
	ValidationValue() interface{}
}

func optionalValue(field reflect.Value) interface{} {
	if v, ok := field.Interface().(validationValuer); ok {
		return v.ValidationValue()
	}
	return nil
}

// rule validates one JSON field against a validator tag list.
type rule struct {
	field string
	value interface{}
	tags  string
}

// check runs rules in order and collects one message per failing field.
func check(v *validator.Validate, rules ...rule) error {
	var details []string
	for _, r := range rules {
		err := v.Var(r.value, r.tags)
		if err == nil {
			continue
		}
		tag := ""
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			tag = errs[0].Tag()
		}
		details = append(details, messageFor(r.field, tag))
	}
	if len(details) == 0 {
		return nil
	}
	return appErrors.Validation(details...)
}

func messageFor(field, tag string) string {
	messages, ok := validationMessages[field]
	if !ok {
		return "Le champ " + field + " n'est pas valide"
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	return messages["*"]
}

// parseDate accepts a calendar date or an RFC3339 timestamp.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
