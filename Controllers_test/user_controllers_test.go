package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/paint-queue/database"
	"github.com/yeremiapane/paint-queue/models"
)

func TestLoginProfileLogout(t *testing.T) {
	env := setupEnv(t)
	_, err := database.CreateUser(env.DB, "sipho", "password123", models.RoleAdmin)
	require.NoError(t, err)

	w, _ := env.do(t, http.MethodPost, "/login", "", map[string]string{"username": "sipho", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := env.do(t, http.MethodPost, "/login", "", map[string]string{"username": "sipho", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string      `json:"token"`
		Role  models.Role `json:"role"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	assert.Equal(t, models.RoleAdmin, login.Role)
	require.NotEmpty(t, login.Token)

	w, body = env.do(t, http.MethodGet, "/profile", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"sipho","role":"Admin"}`, string(body.Data))

	w, _ = env.do(t, http.MethodPost, "/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/profile", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := setupEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/board", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/board", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
