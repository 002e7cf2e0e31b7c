package sse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(role rbac.Role) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: uuid.New(),
		Role:   role,
		Send:   make(chan []byte, 16),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case data := <-client.Send:
		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case data := <-client.Send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_OrderEventScopedToOwner(t *testing.T) {
	hub := startHub(t)

	owner := newTestClient(rbac.RoleClient)
	other := newTestClient(rbac.RoleClient)
	operator := newTestClient(rbac.RoleOperator)
	hub.Register(owner)
	hub.Register(other)
	hub.Register(operator)

	orderID := uuid.New()
	hub.BroadcastOrderEvent("order_updated", orderID, owner.UserID.String(), "APROVADO", operator.UserID)

	event := receiveEvent(t, owner)
	assert.Equal(t, "order_updated", event.Type)

	operatorEvent := receiveEvent(t, operator)
	assert.Equal(t, "order_updated", operatorEvent.Type)

	assertNoEvent(t, other)
}

func TestHub_UnownedOrderInvisibleToClients(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(rbac.RoleClient)
	master := newTestClient(rbac.RoleMaster)
	hub.Register(client)
	hub.Register(master)

	hub.BroadcastOrderEvent("order_created", uuid.New(), "", "PENDENTE", uuid.New())

	event := receiveEvent(t, master)
	assert.Equal(t, "order_created", event.Type)

	assertNoEvent(t, client)
}

func TestHub_SchemaUpdateReachesEveryone(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(rbac.RoleClient)
	operator := newTestClient(rbac.RoleOperator)
	hub.Register(client)
	hub.Register(operator)

	hub.BroadcastSchemaUpdate([]string{"Email", "Nota Fiscal"})

	for _, c := range []*Client{client, operator} {
		event := receiveEvent(t, c)
		assert.Equal(t, "schema_updated", event.Type)
	}
}

func TestHub_ToastTargetsOneUser(t *testing.T) {
	hub := startHub(t)

	target := newTestClient(rbac.RoleOperator)
	bystander := newTestClient(rbac.RoleOperator)
	hub.Register(target)
	hub.Register(bystander)

	hub.SendToast(target.UserID, "Notificação enviada.")

	event := receiveEvent(t, target)
	assert.Equal(t, "toast", event.Type)

	payload, err := json.Marshal(event.Data)
	require.NoError(t, err)
	var toast ToastEventData
	require.NoError(t, json.Unmarshal(payload, &toast))
	assert.Equal(t, "Notificação enviada.", toast.Message)
	assert.Equal(t, ToastTTLMillis, toast.TTLMillis)

	assertNoEvent(t, bystander)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(rbac.RoleClient)
	hub.Register(client)
	hub.Unregister(client)

	select {
	case _, open := <-client.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
