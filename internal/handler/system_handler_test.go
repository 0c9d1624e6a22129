package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
)

func TestWelcomeListsEndpoints(t *testing.T) {
	api := newTestAPI(nil, nil)

	w := api.do(http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bienvenue dans l'API de gestion des étudiants")
	assert.Contains(t, w.Body.String(), `"/api/inscriptions"`)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(nil, nil)

	w := api.do(http.MethodGet, "/api/professeurs", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route non trouvée"}`, w.Body.String())
}

func TestReadyReportsFailingDependency(t *testing.T) {
	api := newTestAPI(nil, map[string]Pinger{
		"postgres": PingerFunc(func(context.Context) error { return nil }),
		"redis":    PingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})

	w := api.do(http.MethodGet, "/ready", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"postgres":"up","redis":"down"}}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(nil, nil)

	assert.JSONEq(t, `{"status":"ok"}`, api.do(http.MethodGet, "/health", "").Body.String())
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/ready", "").Code)
	assert.Contains(t, api.do(http.MethodGet, "/metrics", "").Body.String(), "http_requests_total")
}

func TestLogin(t *testing.T) {
	api := newTestAPI(nil, nil)
	api.auth.resp = &dto.LoginResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 3600}

	w := api.do(http.MethodPost, "/api/auth/login", `{"email":"admin@ecole.fr","password":"secret"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accessToken":"tok","tokenType":"Bearer","expiresIn":3600}`, w.Body.String())
	assert.Equal(t, "admin@ecole.fr", api.auth.last.Email)

	api.auth.err = appErrors.Clone(appErrors.ErrUnauthorized, "Identifiants invalides")
	w = api.do(http.MethodPost, "/api/auth/login", `{"email":"admin@ecole.fr","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Identifiants invalides"}`, w.Body.String())
}
