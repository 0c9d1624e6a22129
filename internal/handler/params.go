package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
	"github.com/noah-isme/gestion-etudiants-api/pkg/response"
)

// Not-found messages reported for malformed path identifiers.
const (
	msgStudentNotFound    = "Étudiant non trouvé"
	msgCourseNotFound     = "Cours non trouvé"
	msgEnrollmentNotFound = "Inscription non trouvée"
	msgInvalidBody        = "Le corps de la requête est invalide"
)

// parseID reads the :id parameter. Anything that is not a positive integer
// cannot match a row, so it is answered with the resource's 404.
func parseID(c *gin.Context, notFoundMessage string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, notFoundMessage))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into dest. An empty body decodes as {}.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if c.Request.Body == nil {
		return true
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Validation(msgInvalidBody))
		return false
	}
	return true
}
