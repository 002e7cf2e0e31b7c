package handlers

import (
	"context"

	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/andrevilar/romaneio-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Register(ctx context.Context, name, email, password, role string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id, actingUserID uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, displayName, photoBase64 *string) (*models.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
}

// SchemaServiceInterface defines the methods used by handlers from SchemaService
type SchemaServiceInterface interface {
	LoadOrInitialize(ctx context.Context) ([]string, error)
	SetHeaders(ctx context.Context, next []string) ([]string, error)
}

// OrderServiceInterface defines the methods used by handlers from OrderService
type OrderServiceInterface interface {
	List(ctx context.Context, headers []string) ([]models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID, headers []string) (*models.Order, error)
	Create(ctx context.Context, values []string, attachments []models.Attachment, headers []string, actingUser *models.User) (*models.Order, error)
	UpdateRow(ctx context.Context, id uuid.UUID, columns []string, status string, headers []string, actingUser *models.User) (*models.Order, error)
	WriteCell(ctx context.Context, id uuid.UUID, colIndex int, value string, headers []string, actingUser *models.User) (*models.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string, headers []string) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AppendAttachments(ctx context.Context, id uuid.UUID, newAttachments []models.Attachment, headers []string) (*models.Order, error)
}

// NotifyServiceInterface defines the methods used by handlers from NotifyService
type NotifyServiceInterface interface {
	SendStatusNotification(ctx context.Context, recipient, status, orderID string) error
}

// HubInterface defines the methods used by handlers from the Hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
	BroadcastOrderEvent(eventType string, orderID uuid.UUID, ownerID, status string, updatedBy uuid.UUID)
	BroadcastSchemaUpdate(headers []string)
	SendToast(userID uuid.UUID, text string)
}
