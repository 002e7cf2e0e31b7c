package integration

import (
	"context"
	"testing"

	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/andrevilar/romaneio-api/internal/services"
	"github.com/andrevilar/romaneio-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_RegisterAndAuthenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", " Ana@Demo.com ", "secret123", models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "ana@demo.com", user.Email)

	authed, err := svc.Authenticate(ctx, "ANA@demo.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "ana@demo.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidPassword)
}

func TestUserService_Integration_Register_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@demo.com", "secret123", models.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Outra Ana", "Ana@Demo.com", "secret456", models.RoleOperator)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestUserService_Integration_DeleteKeepsOrders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	users := services.NewUserService(tdb.DB)
	resolver := services.NewOwnerResolver(users)
	orders := services.NewOrderService(tdb.DB, resolver, services.NewMailService(tdb.DB))
	ctx := context.Background()

	master := fixtures.CreateUser(t, testutil.WithRole(models.RoleMaster))
	client := fixtures.CreateUser(t, testutil.WithEmail("cliente@demo.com"))
	order := fixtures.CreateOrder(t, testutil.WithOwner(client))

	require.NoError(t, users.Delete(ctx, client.ID, master.ID))

	// The order survives with its stale owner snapshot.
	kept, err := orders.GetByID(ctx, order.ID, models.DefaultHeaders)
	require.NoError(t, err)
	assert.Equal(t, client.ID.String(), kept.OwnerID)
	assert.Equal(t, "cliente@demo.com", kept.OwnerEmail)
}

func TestUserService_Integration_UpdateProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user := fixtures.CreateUser(t)

	name := "Ana Souza"
	updated, err := svc.UpdateProfile(ctx, user.ID, &name, nil)
	require.NoError(t, err)
	require.NotNil(t, updated.DisplayName)
	assert.Equal(t, "Ana Souza", *updated.DisplayName)

	empty := ""
	cleared, err := svc.UpdateProfile(ctx, user.ID, &empty, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.DisplayName)
}
