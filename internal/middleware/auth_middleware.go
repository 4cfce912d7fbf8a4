package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suraj/version24/internal/app/models"
	"github.com/suraj/version24/internal/app/models/dto"
	"github.com/suraj/version24/internal/app/repositories"
	"github.com/suraj/version24/internal/pkg/auth"
)

// Context keys set by SessionAuth for downstream handlers
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "roleType"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "jwt"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// SessionAuth validates the session token and hydrates the request context.
// The token travels in the jwt cookie; an Authorization bearer header is
// accepted as a fallback for non-browser clients. A token issued before the
// account's last password change is rejected.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			if authHeader := c.GetHeader("Authorization"); authHeader != "" {
				tokenString, _ = auth.ExtractBearerToken(authHeader)
			}
		}

		if tokenString == "" {
			abortUnauthorized(c, "You are not logged in.")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired session.")
			return
		}

		user, err := m.userRepo.GetUserByEmail(c.Request.Context(), claims.Email)
		if err != nil {
			abortUnauthorized(c, "The user belonging to this session no longer exists.")
			return
		}

		if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time) {
			abortUnauthorized(c, "Password was changed recently. Please log in again.")
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextEmail, user.Email)
		c.Set(ContextRole, string(user.Role))

		c.Next()
	}
}

// RoleRequired restricts a route group to the given role. The requester row
// is reloaded so a role change takes effect without waiting for token expiry.
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if email == "" {
			abortUnauthorized(c, "You are not logged in.")
			return
		}

		user, err := m.userRepo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			abortUnauthorized(c, "The user belonging to this session no longer exists.")
			return
		}

		if user.Role != role {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You do not have permission to perform this action.")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
