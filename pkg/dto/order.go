package dto

import (
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	Columns     []string           `json:"columns"`
	Attachments []AttachmentUpload `json:"attachments,omitempty"`
}

type AttachmentUpload struct {
	Name string `json:"name"`
	// ContentBase64 is the raw file content, standard base64.
	ContentBase64 string `json:"content_base64"`
}

type UpdateOrderRequest struct {
	Columns []string `json:"columns"`
	Status  string   `json:"status,omitempty"`
}

type WriteCellRequest struct {
	ColIndex int    `json:"col_index"`
	Value    string `json:"value"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type AppendAttachmentsRequest struct {
	Attachments []AttachmentUpload `json:"attachments"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OwnerID          string              `json:"owner_id"`
	OwnerEmail       string              `json:"owner_email"`
	OwnerDisplayName *string             `json:"owner_display_name,omitempty"`
	OwnerPhotoBase64 *string             `json:"owner_photo_base64,omitempty"`
	Columns          []string            `json:"columns"`
	Status           string              `json:"status"`
	Attachments      []models.Attachment `json:"attachments"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID,
		OwnerID:          o.OwnerID,
		OwnerEmail:       o.OwnerEmail,
		OwnerDisplayName: o.OwnerDisplayName,
		OwnerPhotoBase64: o.OwnerPhotoBase64,
		Columns:          o.Columns,
		Status:           o.Status,
		Attachments:      o.Attachments,
	}
}
