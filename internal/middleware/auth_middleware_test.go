package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/app/repositories"
	"github.com/suraj/version24/internal/pkg/apperrors"
	"github.com/suraj/version24/internal/pkg/auth"
)

// stubUserRepo serves a fixed set of users; the write methods are never hit
// by the middleware.
type stubUserRepo struct {
	users map[string]*models.User
}

func (r *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotExist
}

func (r *stubUserRepo) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	return 0, nil
}
func (r *stubUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, apperrors.ErrUserNotExist
}
func (r *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) SetEmailToken(ctx context.Context, userID int64, tokenHash string) error {
	return nil
}
func (r *stubUserRepo) GetUserByEmailTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	return nil, apperrors.ErrTokenInvalid
}
func (r *stubUserRepo) ConfirmEmail(ctx context.Context, userID int64) error { return nil }
func (r *stubUserRepo) SetPasswordResetToken(ctx context.Context, userID int64, tokenHash string, expiry time.Time) error {
	return nil
}
func (r *stubUserRepo) ResetPasswordByTokenHash(ctx context.Context, tokenHash, newPasswordHash string) (bool, error) {
	return false, nil
}
func (r *stubUserRepo) UpdatePassword(ctx context.Context, email, newPasswordHash string) error {
	return nil
}
func (r *stubUserRepo) GetRegistrationsByUserID(ctx context.Context, userID int64) ([]models.EventRegistration, error) {
	return nil, nil
}
func (r *stubUserRepo) ListUsers(ctx context.Context, offset uint64, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}
func (r *stubUserRepo) DeleteUsersByEmail(ctx context.Context, emails []string) (int64, error) {
	return 0, nil
}

var _ repositories.IUserRepository = (*stubUserRepo)(nil)

func newTestRouter(t *testing.T, repo *stubUserRepo) (*gin.Engine, *auth.JWTService, *AuthMiddleware) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "version24.test",
	})
	mw := NewAuthMiddleware(jwtSvc, repo)

	router := gin.New()
	router.GET("/protected", mw.SessionAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextEmail), "role": c.GetString(ContextRole)})
	})
	router.GET("/admin-only", mw.SessionAuth(), mw.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtSvc, mw
}

func studentUser(email string) *models.User {
	return &models.User{
		ID:               1,
		Email:            email,
		Role:             models.RoleStudent,
		IsEmailConfirmed: true,
	}
}

func TestSessionAuth_NoToken(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_ValidCookie(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*models.User{
		"a@example.com": studentUser("a@example.com"),
	}}
	router, jwtSvc, _ := newTestRouter(t, repo)

	token, _, err := jwtSvc.GenerateToken("a@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
}

func TestSessionAuth_BearerFallback(t *testing.T) {
	repo := &stubUserRepo{users: map[string]*models.User{
		"a@example.com": studentUser("a@example.com"),
	}}
	router, jwtSvc, _ := newTestRouter(t, repo)

	token, _, err := jwtSvc.GenerateToken("a@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionAuth_GarbageToken(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAuth_UserGone(t *testing.T) {
	router, jwtSvc, _ := newTestRouter(t, &stubUserRepo{users: map[string]*models.User{}})

	token, _, err := jwtSvc.GenerateToken("deleted@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A token minted before the password change is rejected.
func TestSessionAuth_StaleTokenAfterPasswordChange(t *testing.T) {
	user := studentUser("a@example.com")
	changed := time.Now().Add(time.Minute)
	user.PasswordChangedAt = &changed

	repo := &stubUserRepo{users: map[string]*models.User{"a@example.com": user}}
	router, jwtSvc, _ := newTestRouter(t, repo)

	token, _, err := jwtSvc.GenerateToken("a@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleRequired(t *testing.T) {
	student := studentUser("student@example.com")
	admin := &models.User{ID: 2, Email: "admin@example.com", Role: models.RoleAdmin, IsEmailConfirmed: true}

	repo := &stubUserRepo{users: map[string]*models.User{
		"student@example.com": student,
		"admin@example.com":   admin,
	}}
	router, jwtSvc, _ := newTestRouter(t, repo)

	studentToken, _, err := jwtSvc.GenerateToken("student@example.com")
	require.NoError(t, err)
	adminToken, _, err := jwtSvc.GenerateToken("admin@example.com")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: studentToken})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: adminToken})
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
