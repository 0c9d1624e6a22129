package service

import (
	"database/sql"
	"errors"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
)

// Not-found messages shared by the services.
const (
	msgStudentNotFound    = "Étudiant non trouvé"
	msgCourseNotFound     = "Cours non trouvé"
	msgEnrollmentNotFound = "Inscription non trouvée"
)

// internalError logs the cause and hides it behind message.
func internalError(logger *zap.Logger, err error, message string) error {
	logger.Error(message, zap.Error(err))
	return appErrors.Internal(err, message)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func notFound(message string) error {
	return appErrors.Clone(appErrors.ErrNotFound, message)
}

func conflict(message string) error {
	return appErrors.Clone(appErrors.ErrConflict, message)
}
