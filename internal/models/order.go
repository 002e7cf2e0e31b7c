package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. A flat enum: every status is directly reachable from
// every other, there is no terminal state.
const (
	StatusPendente  = "PENDENTE"
	StatusEmAnalise = "EM_ANALISE"
	StatusAprovado  = "APROVADO"
	StatusRejeitado = "REJEITADO"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPendente, StatusEmAnalise, StatusAprovado, StatusRejeitado:
		return true
	}
	return false
}

// StatusLabel maps a status code to the label used in notifications.
func StatusLabel(status string) string {
	switch status {
	case StatusPendente:
		return "Pendente"
	case StatusEmAnalise:
		return "Em análise"
	case StatusAprovado:
		return "Aprovado"
	case StatusRejeitado:
		return "Rejeitado"
	}
	return status
}

// Attachment is an immutable document carried inline on an order as a
// data URI. Attachments are only ever appended, never removed.
type Attachment struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Order is one row of the shared table. Columns is index-aligned with the
// schema headers; columns[0] is the contact email that drives ownership.
//
// OwnerID is a plain string rather than a uuid: an email that matches no
// user resolves to "", leaving the order invisible to every client
// account. OwnerDisplayName and OwnerPhotoBase64 are a snapshot of the
// owner taken at resolution time; they go stale until the row is next
// written.
type Order struct {
	ID               uuid.UUID    `json:"id"`
	OwnerID          string       `json:"owner_id"`
	OwnerEmail       string       `json:"owner_email"`
	OwnerDisplayName *string      `json:"owner_display_name,omitempty"`
	OwnerPhotoBase64 *string      `json:"owner_photo_base64,omitempty"`
	Columns          []string     `json:"columns"`
	Status           string       `json:"status"`
	Attachments      []Attachment `json:"attachments"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
