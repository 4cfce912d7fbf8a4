package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/suraj/version24/internal/pkg/apperrors"
)

func handleInTestContext(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	HandleAPIError(c, err)
	return rec
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation failure", apperrors.ErrValidationFailed, http.StatusBadRequest},
		{"duplicate user", apperrors.ErrUserAlreadyExists, http.StatusBadRequest},
		{"incorrect password", apperrors.ErrPasswordIncorrect, http.StatusBadRequest},
		{"email not confirmed", apperrors.ErrEmailNotConfirmed, http.StatusForbidden},
		{"invalid token", apperrors.ErrTokenInvalid, http.StatusUnauthorized},
		{"expired reset token", apperrors.ErrInvalidOrExpiredToken, http.StatusUnauthorized},
		{"otp mismatch", apperrors.ErrOTPMismatch, http.StatusUnauthorized},
		{"otp missing", apperrors.ErrOTPNotFound, http.StatusUnauthorized},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden},
		{"unknown user", apperrors.ErrUserNotExist, http.StatusNotFound},
		{"unknown event", apperrors.ErrEventNotFound, http.StatusNotFound},
		{"registration missing", apperrors.ErrRegistrationNotFound, http.StatusNotFound},
		{"team name required", apperrors.ErrTeamNameRequired, http.StatusBadRequest},
		{"team name taken", apperrors.ErrTeamNameTaken, http.StatusBadRequest},
		{"not in team", apperrors.ErrNotInTeam, http.StatusBadRequest},
		{"teammates already registered", apperrors.ErrTeammatesAlreadyRegistered, http.StatusBadRequest},
		{"unclassified", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := handleInTestContext(t, tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"error"`)
		})
	}
}

func TestHandleAPIError_WrappedSentinelKeepsStatus(t *testing.T) {
	err := apperrors.NewCustomError(apperrors.ErrEmailNotConfirmed, "Confirm your email before logging in.")

	rec := handleInTestContext(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Confirm your email before logging in.")
}

func TestHandleAPIError_UnknownErrorHidesDetail(t *testing.T) {
	rec := handleInTestContext(t, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "Something went wrong.")
}
