package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Name:  fmt.Sprintf("Test User %d", f.counter),
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Role:  models.RoleClient,
	}
	password := "secret123"

	for _, opt := range opts {
		opt(user, &password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, display_name, photo_base64)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, password_hash, role, display_name, photo_base64, created_at, updated_at
	`, user.Name, user.Email, string(hash), user.Role, user.DisplayName, user.PhotoBase64).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.DisplayName, &user.PhotoBase64, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User, *string)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User, _ *string) {
		u.Email = email
	}
}

// WithRole sets the user's role
func WithRole(role string) UserOption {
	return func(u *models.User, _ *string) {
		u.Role = role
	}
}

// WithPassword sets the user's password
func WithPassword(password string) UserOption {
	return func(_ *models.User, p *string) {
		*p = password
	}
}

// WithDisplayName sets the user's display name
func WithDisplayName(name string) UserOption {
	return func(u *models.User, _ *string) {
		u.DisplayName = &name
	}
}

// CreateOrder creates a test order row
func (f *Fixtures) CreateOrder(t *testing.T, opts ...OrderOption) *models.Order {
	t.Helper()
	f.counter++

	order := &models.Order{
		OwnerEmail:  fmt.Sprintf("contact%d@example.com", f.counter),
		Columns:     make([]string, len(models.DefaultHeaders)),
		Status:      models.StatusPendente,
		Attachments: []models.Attachment{},
	}
	order.Columns[0] = order.OwnerEmail

	for _, opt := range opts {
		opt(order)
	}

	attachmentsJSON, err := json.Marshal(order.Attachments)
	if err != nil {
		t.Fatalf("failed to encode attachments: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO orders (owner_id, owner_email, owner_display_name, owner_photo_base64, columns, status, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, order.OwnerID, order.OwnerEmail, order.OwnerDisplayName, order.OwnerPhotoBase64,
		order.Columns, order.Status, attachmentsJSON).Scan(
		&order.ID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	return order
}

// OrderOption configures a test order
type OrderOption func(*models.Order)

// WithOwner assigns the order to the given user
func WithOwner(user *models.User) OrderOption {
	return func(o *models.Order) {
		o.OwnerID = user.ID.String()
		o.OwnerEmail = user.Email
		o.Columns[0] = user.Email
	}
}

// WithColumns sets the order's column values
func WithColumns(columns []string) OrderOption {
	return func(o *models.Order) {
		o.Columns = columns
	}
}

// WithStatus sets the order's status
func WithStatus(status string) OrderOption {
	return func(o *models.Order) {
		o.Status = status
	}
}

// WithAttachments sets the order's attachments
func WithAttachments(attachments []models.Attachment) OrderOption {
	return func(o *models.Order) {
		o.Attachments = attachments
	}
}

// SetHeaders writes the stored table_config headers directly, bypassing
// the service layer's canonicalization
func (f *Fixtures) SetHeaders(t *testing.T, headers []string) {
	t.Helper()

	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO table_config (id, headers) VALUES ('default', $1)
		ON CONFLICT (id) DO UPDATE SET headers = EXCLUDED.headers
	`, headers)
	if err != nil {
		t.Fatalf("failed to set headers: %v", err)
	}
}
