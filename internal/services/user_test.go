package services

import (
	"context"
	"testing"
	"time"

	"github.com/andrevilar/romaneio-api/internal/database"
	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userRowColumns = []string{
	"id", "name", "email", "password_hash", "role",
	"display_name", "photo_base64", "created_at", "updated_at",
}

func setupUserService(t *testing.T) (*UserService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewUserService(db), mock
}

func userRow(id uuid.UUID, name, email, hash, role string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(userRowColumns).
		AddRow(id, name, email, hash, role, (*string)(nil), (*string)(nil), now, now)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "client@demo.com", NormalizeEmail("  Client@Demo.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserService_Register(t *testing.T) {
	svc, mock := setupUserService(t)
	ctx := context.Background()
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@demo.com").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ana", "ana@demo.com", pgxmock.AnyArg(), models.RoleClient).
		WillReturnRows(userRow(id, "Ana", "ana@demo.com", "hash", models.RoleClient))

	user, err := svc.Register(ctx, "Ana", " Ana@Demo.com ", "secret123", models.RoleClient)

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "ana@demo.com", user.Email)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Register_MasterForbidden(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Register(context.Background(), "Eve", "eve@demo.com", "secret123", models.RoleMaster)
	assert.ErrorIs(t, err, ErrMasterRegistration)
}

func TestUserService_Register_InvalidRole(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Register(context.Background(), "Eve", "eve@demo.com", "secret123", "SUPERVISOR")
	assert.Error(t, err)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@demo.com").
		WillReturnRows(userRow(uuid.New(), "Ana", "ana@demo.com", "hash", models.RoleClient))

	_, err := svc.Register(context.Background(), "Ana", "ana@demo.com", "secret123", models.RoleClient)

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@demo.com").
		WillReturnRows(userRow(id, "Ana", "ana@demo.com", string(hash), models.RoleClient))

	user, err := svc.Authenticate(context.Background(), "ana@demo.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Authenticate_WrongPassword(t *testing.T) {
	svc, mock := setupUserService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ana@demo.com").
		WillReturnRows(userRow(uuid.New(), "Ana", "ana@demo.com", string(hash), models.RoleClient))

	_, err = svc.Authenticate(context.Background(), "ana@demo.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("ghost@demo.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "ghost@demo.com", "secret123")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Delete(t *testing.T) {
	svc, mock := setupUserService(t)
	target := uuid.New()
	acting := uuid.New()

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(target).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, svc.Delete(context.Background(), target, acting))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_Delete_Self(t *testing.T) {
	svc, _ := setupUserService(t)
	id := uuid.New()

	err := svc.Delete(context.Background(), id, id)
	assert.ErrorIs(t, err, ErrCannotDeleteSelf)
}

func TestUserService_Delete_NotFound(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectExec(`DELETE FROM users`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile_ClearsWithEmptyString(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()
	empty := ""

	mock.ExpectQuery(`UPDATE users SET display_name`).
		WithArgs((*string)(nil), id).
		WillReturnRows(userRow(id, "Ana", "ana@demo.com", "hash", models.RoleClient))

	user, err := svc.UpdateProfile(context.Background(), id, &empty, nil)

	require.NoError(t, err)
	assert.Nil(t, user.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserService_UpdateProfile_NoFields(t *testing.T) {
	svc, mock := setupUserService(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WithArgs(id).
		WillReturnRows(userRow(id, "Ana", "ana@demo.com", "hash", models.RoleClient))

	user, err := svc.UpdateProfile(context.Background(), id, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
}

func TestUserService_RequestPasswordReset(t *testing.T) {
	svc, mock := setupUserService(t)

	mock.ExpectExec(`INSERT INTO password_resets`).
		WithArgs("ghost@demo.com").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// Succeeds even for an address with no matching account.
	require.NoError(t, svc.RequestPasswordReset(context.Background(), " Ghost@Demo.com "))
	assert.NoError(t, mock.ExpectationsWereMet())
}
