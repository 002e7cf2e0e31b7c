package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrMasterRegistration = errors.New("the MASTER account is fixed and cannot be registered")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
)

const userColumns = `id, name, email, password_hash, role, display_name, photo_base64, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// NormalizeEmail applies the equality rule used everywhere emails are
// compared: trim then lowercase.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
		&user.DisplayName, &user.PhotoBase64, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if role == models.RoleMaster {
		return nil, ErrMasterRegistration
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role: %s", role)
	}

	normalized := NormalizeEmail(email)

	if _, err := s.GetByEmail(ctx, normalized); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, name, normalized, string(hash), role))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, NormalizeEmail(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.DisplayName, &u.PhotoBase64, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user account. Orders owned by the user are left
// untouched; their owner snapshot just goes stale.
func (s *UserService) Delete(ctx context.Context, id, actingUserID uuid.UUID) error {
	if id == actingUserID {
		return ErrCannotDeleteSelf
	}
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfile sets or clears the display name and photo. A nil pointer
// leaves the field alone; an empty string clears it to NULL.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName, photoBase64 *string) (*models.User, error) {
	if displayName == nil && photoBase64 == nil {
		return s.GetByID(ctx, id)
	}

	emptyToNil := func(v *string) *string {
		if v == nil || *v == "" {
			return nil
		}
		return v
	}

	var user *models.User
	var err error
	switch {
	case displayName != nil && photoBase64 != nil:
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET display_name = $1, photo_base64 = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING `+userColumns+`
		`, emptyToNil(displayName), emptyToNil(photoBase64), id))
	case displayName != nil:
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET display_name = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING `+userColumns+`
		`, emptyToNil(displayName), id))
	default:
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET photo_base64 = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING `+userColumns+`
		`, emptyToNil(photoBase64), id))
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset appends to the write-only audit trail. It succeeds
// whether or not the email matches a user, to avoid leaking which
// addresses exist.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO password_resets (email) VALUES ($1)
	`, NormalizeEmail(email))
	return err
}
