// Package middleware provides HTTP middleware for the application:
// bearer authentication, admin gating, and per-actor rate limiting.
package middleware

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"strings"

	apperrors "prequity/internal/errors"
	"prequity/internal/models"
	"prequity/internal/repositories"
	"prequity/internal/utils"
	"prequity/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware resolves a bearer credential to an identity and role.
// Two mechanisms are supported: a signed HS256 JWT, and a fallback
// base64-encoded JSON payload ("demo token"). The unsigned fallback is
// only honored when AllowDemoTokens is set, which production
// configuration must never do.
type AuthMiddleware struct {
	users           repositories.UserRepository
	jwtSecret       string
	adminEmail      string
	allowDemoTokens bool
}

func NewAuthMiddleware(users repositories.UserRepository, jwtSecret, adminEmail string, allowDemoTokens bool) *AuthMiddleware {
	return &AuthMiddleware{
		users:           users,
		jwtSecret:       jwtSecret,
		adminEmail:      adminEmail,
		allowDemoTokens: allowDemoTokens,
	}
}

// Handler authenticates the request and stores resolved claims in the
// context. Absent credential -> NO_TOKEN; present but unresolvable ->
// INVALID_TOKEN. The role stored in the claims is the persisted role,
// not whatever the token asserts, except for the fixed admin email.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return response.DomainError(c, apperrors.ErrNoToken)
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.DomainError(c, apperrors.ErrInvalidToken)
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := m.resolve(tokenString)
	if err != nil {
		return response.DomainError(c, err)
	}

	role, err := m.resolveRole(claims)
	if err != nil {
		return response.DomainError(c, err)
	}
	claims.Role = role

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

func (m *AuthMiddleware) resolve(tokenString string) (*models.UserClaims, *apperrors.DomainError) {
	claims, err := utils.ParseToken(tokenString, m.jwtSecret)
	if err == nil {
		return claims, nil
	}

	if m.allowDemoTokens {
		if demo, ok := decodeDemoToken(tokenString); ok {
			return &models.UserClaims{UserID: demo.UserID, Email: demo.Email}, nil
		}
	}

	log.Printf("token validation failed: %v", err)
	return nil, apperrors.ErrInvalidToken
}

func (m *AuthMiddleware) resolveRole(claims *models.UserClaims) (string, *apperrors.DomainError) {
	if m.adminEmail != "" && claims.Email == m.adminEmail {
		return models.RoleAdmin, nil
	}

	user, err := m.users.GetByID(claims.UserID)
	switch {
	case err == repositories.ErrUserNotFound:
		return "", apperrors.ErrInvalidToken
	case err != nil:
		// A persistence failure must not be mistaken for denial.
		log.Printf("role resolution failed for user %d: %v", claims.UserID, err)
		return "", apperrors.ErrRoleCheck
	}
	if !user.IsActive() {
		return "", apperrors.ErrAccessDenied
	}
	return user.Role, nil
}

// RequireAdmin gates admin-only routes. Must run after Handler.
func RequireAdmin(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok || claims.Role != models.RoleAdmin {
		return response.DomainError(c, apperrors.ErrInsufficientPermissions)
	}
	return c.Next()
}

// GetClaims extracts authenticated claims from the context.
func GetClaims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok
}

// RequireOwnership admits the resource owner or an admin; everyone else
// receives ACCESS_DENIED.
func RequireOwnership(claims *models.UserClaims, ownerID uint) error {
	if claims.Role == models.RoleAdmin || claims.UserID == ownerID {
		return nil
	}
	return apperrors.ErrAccessDenied
}

func decodeDemoToken(tokenString string) (*models.DemoToken, bool) {
	payload, err := base64.StdEncoding.DecodeString(tokenString)
	if err != nil {
		if payload, err = base64.URLEncoding.DecodeString(tokenString); err != nil {
			return nil, false
		}
	}
	var demo models.DemoToken
	if err := json.Unmarshal(payload, &demo); err != nil || demo.UserID == 0 || demo.Email == "" {
		return nil, false
	}
	return &demo, true
}
