package models

import (
	"time"

	"github.com/google/uuid"
)

// MailMessage is a queued outbound notification. The service only writes
// these; delivery is the mail worker's problem, downstream of this API.
type MailMessage struct {
	ID        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}
