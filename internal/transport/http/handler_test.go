package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	customErrors "github.com/mimipoint/backend/internal/domain/errors"
)

func TestHandleError_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", customErrors.NewInvalidArgument("bad"), http.StatusBadRequest},
		{"password mismatch", customErrors.ErrPasswordMismatch, http.StatusBadRequest},
		{"invalid credentials", customErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", customErrors.ErrInvalidToken, http.StatusUnauthorized},
		{"not verified", customErrors.ErrAccountNotVerified, http.StatusForbidden},
		{"oauth only", customErrors.ErrOAuthOnly, http.StatusForbidden},
		{"permission denied", customErrors.ErrPermissionDenied, http.StatusForbidden},
		{"not found", customErrors.NewNotFound("plan"), http.StatusNotFound},
		{"already exists", customErrors.ErrAlreadyExists, http.StatusConflict},
		{"insufficient funds", customErrors.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"upstream provider", customErrors.ErrUpstreamProvider, http.StatusBadGateway},
		{"internal", customErrors.WrapInternal(customErrors.ErrInternal, "db"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			handleError(c, tc.err)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestHandleError_NeverLeaksInternals(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	handleError(c, customErrors.WrapInternal(customErrors.ErrInternal, "pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "connection refused")
	require.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
