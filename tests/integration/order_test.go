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

func newOrderService(tdb *testutil.TestDB) (*services.OrderService, *services.UserService) {
	users := services.NewUserService(tdb.DB)
	resolver := services.NewOwnerResolver(users)
	mail := services.NewMailService(tdb.DB)
	return services.NewOrderService(tdb.DB, resolver, mail), users
}

func TestOrderService_Integration_Create_UnmatchedEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	headers := models.DefaultHeaders

	values := []string{"ninguem@example.com", "NF-123"}
	order, err := svc.Create(ctx, values, nil, headers, operator)

	require.NoError(t, err)
	assert.Empty(t, order.OwnerID)
	assert.Equal(t, "ninguem@example.com", order.OwnerEmail)
	assert.Equal(t, models.StatusPendente, order.Status)
	assert.Len(t, order.Columns, len(headers))
	assert.Empty(t, order.Attachments)
}

func TestOrderService_Integration_Create_ResolvesOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	client := fixtures.CreateUser(t,
		testutil.WithEmail("cliente@demo.com"),
		testutil.WithDisplayName("Cliente Ana"))

	values := []string{" Cliente@Demo.COM ", "NF-456"}
	order, err := svc.Create(ctx, values, nil, models.DefaultHeaders, operator)

	require.NoError(t, err)
	assert.Equal(t, client.ID.String(), order.OwnerID)
	assert.Equal(t, "cliente@demo.com", order.OwnerEmail)
	require.NotNil(t, order.OwnerDisplayName)
	assert.Equal(t, "Cliente Ana", *order.OwnerDisplayName)
}

func TestOrderService_Integration_UpdateRow_ChangesOwnership(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	first := fixtures.CreateUser(t, testutil.WithEmail("primeiro@demo.com"))
	second := fixtures.CreateUser(t, testutil.WithEmail("segundo@demo.com"))
	headers := models.DefaultHeaders

	order, err := svc.Create(ctx, []string{"primeiro@demo.com"}, nil, headers, operator)
	require.NoError(t, err)
	require.Equal(t, first.ID.String(), order.OwnerID)

	// Editing the email cell re-resolves the row to the new owner.
	updated, err := svc.WriteCell(ctx, order.ID, 0, "segundo@demo.com", headers, operator)

	require.NoError(t, err)
	assert.Equal(t, second.ID.String(), updated.OwnerID)
	assert.Equal(t, "segundo@demo.com", updated.OwnerEmail)
}

func TestOrderService_Integration_LastWriteWins(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	headers := models.DefaultHeaders

	order, err := svc.Create(ctx, []string{"contato@example.com", "original"}, nil, headers, operator)
	require.NoError(t, err)

	// Two editors write the same row from the same starting point; no
	// version check rejects either, the later commit simply stands.
	colsA := services.NormalizeColumns([]string{"contato@example.com", "edição A"}, len(headers))
	colsB := services.NormalizeColumns([]string{"contato@example.com", "edição B"}, len(headers))

	_, err = svc.UpdateRow(ctx, order.ID, colsA, order.Status, headers, operator)
	require.NoError(t, err)
	_, err = svc.UpdateRow(ctx, order.ID, colsB, order.Status, headers, operator)
	require.NoError(t, err)

	final, err := svc.GetByID(ctx, order.ID, headers)
	require.NoError(t, err)
	assert.Equal(t, "edição B", final.Columns[1])
}

func TestOrderService_Integration_SetStatus_EnqueuesMail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	headers := models.DefaultHeaders

	order, err := svc.Create(ctx, []string{"contato@example.com"}, nil, headers, operator)
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, order.ID, models.StatusAprovado, headers)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprovado, updated.Status)
	assert.Equal(t, 1, tdb.MailQueueCount(t, "contato@example.com"))

	// Re-asserting the same status produces no second message.
	_, err = svc.SetStatus(ctx, order.ID, models.StatusAprovado, headers)
	require.NoError(t, err)
	assert.Equal(t, 1, tdb.MailQueueCount(t, "contato@example.com"))

	// A real transition does.
	_, err = svc.SetStatus(ctx, order.ID, models.StatusRejeitado, headers)
	require.NoError(t, err)
	assert.Equal(t, 2, tdb.MailQueueCount(t, "contato@example.com"))
}

func TestOrderService_Integration_AppendAttachments_Monotonic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	headers := models.DefaultHeaders

	initial := []models.Attachment{{Name: "nota.pdf", Data: "data:application/pdf;base64,AAAA"}}
	order, err := svc.Create(ctx, []string{"contato@example.com"}, initial, headers, operator)
	require.NoError(t, err)
	require.Len(t, order.Attachments, 1)

	updated, err := svc.AppendAttachments(ctx, order.ID, []models.Attachment{
		{Name: "foto.png", Data: "data:image/png;base64,BBBB"},
	}, headers)
	require.NoError(t, err)
	require.Len(t, updated.Attachments, 2)
	assert.Equal(t, "nota.pdf", updated.Attachments[0].Name)
	assert.Equal(t, "data:application/pdf;base64,AAAA", updated.Attachments[0].Data)
	assert.Equal(t, "foto.png", updated.Attachments[1].Name)

	final, err := svc.AppendAttachments(ctx, order.ID, []models.Attachment{
		{Name: "comprovante.jpg", Data: "data:image/jpeg;base64,CCCC"},
	}, headers)
	require.NoError(t, err)
	require.Len(t, final.Attachments, 3)
	assert.Equal(t, "nota.pdf", final.Attachments[0].Name)
	assert.Equal(t, "foto.png", final.Attachments[1].Name)
	assert.Equal(t, "comprovante.jpg", final.Attachments[2].Name)
}

func TestOrderService_Integration_List_NormalizesLegacyRows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	// A row written under an older, shorter schema.
	fixtures.CreateOrder(t, testutil.WithColumns([]string{"contato@example.com", "NF-1"}))

	orders, err := svc.List(ctx, models.DefaultHeaders)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Columns, len(models.DefaultHeaders))
	assert.Equal(t, "contato@example.com", orders[0].Columns[0])
}

func TestOrderService_Integration_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc, _ := newOrderService(tdb)
	ctx := context.Background()

	operator := fixtures.CreateUser(t, testutil.WithRole(models.RoleOperator))
	order, err := svc.Create(ctx, []string{"contato@example.com"}, nil, models.DefaultHeaders, operator)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))

	_, err = svc.GetByID(ctx, order.ID, models.DefaultHeaders)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}
