package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform roles. MASTER is a singleton administrator account that is
// seeded, never self-registered.
const (
	RoleMaster   = "MASTER"
	RoleOperator = "OPERATOR"
	RoleClient   = "CLIENT"
)

func ValidRole(role string) bool {
	switch role {
	case RoleMaster, RoleOperator, RoleClient:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	// DisplayName and PhotoBase64 are optional profile fields shown next
	// to orders that resolve to this user.
	DisplayName *string   `json:"display_name,omitempty"`
	PhotoBase64 *string   `json:"photo_base64,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
