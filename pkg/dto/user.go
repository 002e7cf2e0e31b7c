package dto

import "github.com/google/uuid"

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName *string   `json:"display_name,omitempty"`
	PhotoBase64 *string   `json:"photo_base64,omitempty"`
}

// UpdateProfileRequest sets or clears the optional profile fields. A nil
// pointer leaves the field alone; an empty string clears it.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	PhotoBase64 *string `json:"photo_base64,omitempty"`
}
