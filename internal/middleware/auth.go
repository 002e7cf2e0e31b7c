package middleware

import (
	"strings"

	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

func Auth(jwtService *services.JWTService) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, rbac.Normalize(claims.Role))

		c.Next()
	}
}

// RequireCapability gates a route on the RBAC matrix. It must run after
// Auth.
func RequireCapability(cap rbac.Capability) drift.HandlerFunc {
	return func(c *drift.Context) {
		if !rbac.Can(GetUserRole(c), cap) {
			c.Forbidden("insufficient permissions")
			return
		}
		c.Next()
	}
}

func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUserEmail(c *drift.Context) string {
	if email, ok := c.Get(UserEmailKey); ok {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

func GetUserRole(c *drift.Context) rbac.Role {
	if role, ok := c.Get(UserRoleKey); ok {
		if r, ok := role.(rbac.Role); ok {
			return r
		}
	}
	return rbac.RoleClient
}
