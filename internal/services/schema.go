package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/jackc/pgx/v5"
)

const schemaConfigID = "default"

// SchemaService owns the singleton header list shared by every order row.
type SchemaService struct {
	db *database.DB
}

func NewSchemaService(db *database.DB) *SchemaService {
	return &SchemaService{db: db}
}

// DetectStale reports whether a stored header list predates the current
// canonical set: a blank first header, any later header that is empty or
// still carries the legacy "dado" placeholder naming, or a length that no
// longer matches the canonical list.
func DetectStale(headers []string) bool {
	if len(headers) != len(models.DefaultHeaders) {
		return true
	}
	if strings.TrimSpace(headers[0]) == "" {
		return true
	}
	for i, h := range headers {
		if i == 0 {
			continue
		}
		if h == "" || strings.Contains(strings.ToLower(h), "dado") {
			return true
		}
	}
	return false
}

// LoadOrInitialize returns the active headers, creating the config row
// with the canonical defaults when absent. A stale stored schema is
// overwritten with the canonical set in place: a one-way migration that
// discards any custom header text. After this call headers[0] is always
// "Email".
func (s *SchemaService) LoadOrInitialize(ctx context.Context) ([]string, error) {
	var headers []string
	err := s.db.Pool.QueryRow(ctx, `
		SELECT headers FROM table_config WHERE id = $1
	`, schemaConfigID).Scan(&headers)

	if errors.Is(err, pgx.ErrNoRows) {
		return s.overwrite(ctx, models.DefaultHeaders)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	if DetectStale(headers) {
		return s.overwrite(ctx, models.DefaultHeaders)
	}
	return headers, nil
}

// SetHeaders persists an edited header list. Index 0 is not editable and
// is forced back to "Email" regardless of input.
func (s *SchemaService) SetHeaders(ctx context.Context, next []string) ([]string, error) {
	if len(next) == 0 {
		return nil, fmt.Errorf("headers cannot be empty")
	}
	headers := make([]string, len(next))
	copy(headers, next)
	headers[0] = "Email"
	return s.overwrite(ctx, headers)
}

func (s *SchemaService) overwrite(ctx context.Context, headers []string) ([]string, error) {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO table_config (id, headers) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET headers = EXCLUDED.headers, updated_at = NOW()
	`, schemaConfigID, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to persist schema: %w", err)
	}
	return headers, nil
}
