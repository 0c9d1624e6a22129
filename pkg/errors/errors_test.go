package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorWrapsUnknownAsInternal(t *testing.T) {
	appErr := FromError(stderrors.New("boom"))
	require.NotNil(t, appErr)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.Equal(t, "Erreur interne du serveur", appErr.Message)
}

func TestCloneKeepsIdentity(t *testing.T) {
	err := Clone(ErrNotFound, "Étudiant non trouvé")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrConflict))
	assert.Equal(t, "Étudiant non trouvé", err.Message)
	assert.Equal(t, "ressource non trouvée", ErrNotFound.Message)
}

func TestValidationCopiesDetails(t *testing.T) {
	details := []string{"Le nom est requis"}
	err := Validation(details...)
	details[0] = "mutated"
	assert.Equal(t, []string{"Le nom est requis"}, err.Details)
	assert.Nil(t, ErrValidation.Details)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestInternalUnwraps(t *testing.T) {
	cause := stderrors.New("db down")
	err := Internal(cause, "Erreur lors de la récupération des cours")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db down")
}
