package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOrderNotFound = errors.New("order not found")

const orderColumns = `id, owner_id, owner_email, owner_display_name, owner_photo_base64, columns, status, attachments, created_at, updated_at`

// OrderService maintains the order collection. Writes are whole-row,
// last-write-wins: there is no version column and no conflict check, so
// of two near-simultaneous updates to the same row the later commit
// stands.
type OrderService struct {
	db       *database.DB
	resolver *OwnerResolver
	mail     *MailService
}

func NewOrderService(db *database.DB, resolver *OwnerResolver, mail *MailService) *OrderService {
	return &OrderService{db: db, resolver: resolver, mail: mail}
}

// NormalizeColumns pads with empty strings or truncates so that the
// returned slice is exactly headerCount long. Every row passes through
// this on both read and write; a mismatched row is corrected, never
// refused.
func NormalizeColumns(columns []string, headerCount int) []string {
	normalized := make([]string, headerCount)
	copy(normalized, columns)
	return normalized
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var attachments []byte
	err := row.Scan(
		&o.ID, &o.OwnerID, &o.OwnerEmail, &o.OwnerDisplayName, &o.OwnerPhotoBase64,
		&o.Columns, &o.Status, &attachments, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(attachments, &o.Attachments); err != nil {
		return nil, fmt.Errorf("failed to decode attachments: %w", err)
	}
	if o.Attachments == nil {
		o.Attachments = []models.Attachment{}
	}
	return &o, nil
}

// List returns every order, each normalized against the given headers.
// An empty collection yields an empty slice, not nil rows carried over
// from a previous read.
func (s *OrderService) List(ctx context.Context, headers []string) ([]models.Order, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+orderColumns+` FROM orders ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var attachments []byte
		if err := rows.Scan(
			&o.ID, &o.OwnerID, &o.OwnerEmail, &o.OwnerDisplayName, &o.OwnerPhotoBase64,
			&o.Columns, &o.Status, &attachments, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(attachments, &o.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
		if o.Attachments == nil {
			o.Attachments = []models.Attachment{}
		}
		o.Columns = NormalizeColumns(o.Columns, len(headers))
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID, headers []string) (*models.Order, error) {
	o, err := scanOrder(s.db.Pool.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Columns = NormalizeColumns(o.Columns, len(headers))
	return o, nil
}

// Create inserts a new order with status PENDENTE. The owner is resolved
// from the first column before the write.
func (s *OrderService) Create(ctx context.Context, values []string, attachments []models.Attachment, headers []string, actingUser *models.User) (*models.Order, error) {
	columns := NormalizeColumns(values, len(headers))

	resolved, err := s.resolver.Resolve(ctx, columns[0], actingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	if attachments == nil {
		attachments = []models.Attachment{}
	}
	attachmentsJSON, err := json.Marshal(attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}

	o, err := scanOrder(s.db.Pool.QueryRow(ctx, `
		INSERT INTO orders (owner_id, owner_email, owner_display_name, owner_photo_base64, columns, status, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns+`
	`, resolved.OwnerID, resolved.OwnerEmail, resolved.OwnerDisplayName, resolved.OwnerPhotoBase64,
		columns, models.StatusPendente, attachmentsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return o, nil
}

// UpdateRow persists an edited row. The owner is re-resolved from
// columns[0] on every write, so any cell edit can change ownership as a
// side effect. The full field set is overwritten without a version check.
func (s *OrderService) UpdateRow(ctx context.Context, id uuid.UUID, columns []string, status string, headers []string, actingUser *models.User) (*models.Order, error) {
	normalized := NormalizeColumns(columns, len(headers))

	resolved, err := s.resolver.Resolve(ctx, normalized[0], actingUser)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	o, err := scanOrder(s.db.Pool.QueryRow(ctx, `
		UPDATE orders
		SET owner_id = $1, owner_email = $2, owner_display_name = $3, owner_photo_base64 = $4,
			columns = $5, status = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+orderColumns+`
	`, resolved.OwnerID, resolved.OwnerEmail, resolved.OwnerDisplayName, resolved.OwnerPhotoBase64,
		normalized, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return o, nil
}

// WriteCell applies a single cell edit and persists the row through
// UpdateRow, re-resolving ownership even when the edited cell is not the
// email column.
func (s *OrderService) WriteCell(ctx context.Context, id uuid.UUID, colIndex int, value string, headers []string, actingUser *models.User) (*models.Order, error) {
	if colIndex < 0 || colIndex >= len(headers) {
		return nil, fmt.Errorf("column index %d out of range", colIndex)
	}

	current, err := s.GetByID(ctx, id, headers)
	if err != nil {
		return nil, err
	}

	columns := NormalizeColumns(current.Columns, len(headers))
	columns[colIndex] = value

	return s.UpdateRow(ctx, id, columns, current.Status, headers, actingUser)
}

// SetStatus persists a status transition. When the stored status actually
// changed, a templated notification is enqueued for the order's contact —
// the server-side path, independent of any direct dispatch the caller
// also fires. A failed enqueue is logged and absorbed; the status write
// has already committed.
func (s *OrderService) SetStatus(ctx context.Context, id uuid.UUID, status string, headers []string) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	current, err := s.GetByID(ctx, id, headers)
	if err != nil {
		return nil, err
	}
	previous := current.Status

	o, err := scanOrder(s.db.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns+`
	`, status, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	o.Columns = NormalizeColumns(o.Columns, len(headers))

	if previous != o.Status {
		recipient := NormalizeEmail(o.OwnerEmail)
		if recipient == "" && len(o.Columns) > 0 {
			recipient = NormalizeEmail(o.Columns[0])
		}
		if recipient != "" {
			if err := s.mail.EnqueueStatusChange(ctx, recipient, o.Status, o.ID.String()); err != nil {
				log.Printf("failed to enqueue status notification for order %s: %v", o.ID, err)
			}
		}
	}

	return o, nil
}

// Delete removes an order permanently. There is no soft delete and no
// undo.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// AppendAttachments adds documents to an order. The stored list is only
// ever appended to: prior entries keep their order and content, and the
// combined old+new list is persisted in a single write.
func (s *OrderService) AppendAttachments(ctx context.Context, id uuid.UUID, newAttachments []models.Attachment, headers []string) (*models.Order, error) {
	if len(newAttachments) == 0 {
		return s.GetByID(ctx, id, headers)
	}

	current, err := s.GetByID(ctx, id, headers)
	if err != nil {
		return nil, err
	}

	combined := append(current.Attachments, newAttachments...)
	attachmentsJSON, err := json.Marshal(combined)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attachments: %w", err)
	}

	o, err := scanOrder(s.db.Pool.QueryRow(ctx, `
		UPDATE orders SET attachments = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+orderColumns+`
	`, attachmentsJSON, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append attachments: %w", err)
	}
	o.Columns = NormalizeColumns(o.Columns, len(headers))
	return o, nil
}
