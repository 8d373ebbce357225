package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGuestService struct {
	token, playerID string
	err             error
}

func (s stubGuestService) GuestLogin(context.Context) (string, string, error) {
	return s.token, s.playerID, s.err
}

func (s stubGuestService) VerifyToken(string) (string, error) {
	return s.playerID, s.err
}

func serve(t *testing.T, svc stubGuestService) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/guest", NewGuestController(svc).GuestLogin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/guest", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGuestLogin_ReturnsToken(t *testing.T) {
	rec, body := serve(t, stubGuestService{token: "tok", playerID: "p1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	extras := body["extras"].(map[string]any)
	assert.Equal(t, "tok", extras["token"])
	assert.Equal(t, "p1", extras["player_id"])
}

func TestGuestLogin_Failure(t *testing.T) {
	rec, body := serve(t, stubGuestService{err: errors.New("boom")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, rec.Body.String(), "boom")
}
