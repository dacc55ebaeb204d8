package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"vidtube/internal/apperr"
)

func performRequest(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/test", handler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestOKEnvelope(t *testing.T) {
	rec, env := performRequest(t, func(c *gin.Context) {
		OK(c, http.StatusCreated, gin.H{"id": 1}, "created")
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, http.StatusCreated, env.StatusCode)
	require.True(t, env.Success)
	require.Equal(t, "created", env.Message)
	require.NotNil(t, env.Data)
}

func TestErrEnvelopeForTypedError(t *testing.T) {
	rec, env := performRequest(t, func(c *gin.Context) {
		Err(c, apperr.Validation("all fields are required", "email"))
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, http.StatusBadRequest, env.StatusCode)
	require.False(t, env.Success)
	require.Nil(t, env.Data)
	require.Equal(t, []string{"email"}, env.Errors)
}

func TestErrEnvelopeMasksInternalDetails(t *testing.T) {
	rec, env := performRequest(t, func(c *gin.Context) {
		Err(c, errors.New("dial tcp: connection refused"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal server error", env.Message)
	require.False(t, env.Success)
	require.NotContains(t, env.Message, "dial tcp")
}
