// Package view derives the table each role is entitled to see, together
// with the actions it may take on it. Everything here is a pure
// projection over state owned elsewhere; the session is passed in
// explicitly rather than read from ambient globals.
package view

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/andrevilar/romaneio-api/internal/models"
	"github.com/andrevilar/romaneio-api/internal/rbac"
	"github.com/google/uuid"
)

// Session identifies the acting user for a single request.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   rbac.Role
}

// Actions is the per-role action surface exposed alongside the table.
type Actions struct {
	EditCells      bool `json:"edit_cells"`
	EditStatus     bool `json:"edit_status"`
	CreateRow      bool `json:"create_row"`
	DeleteRow      bool `json:"delete_row"`
	ManageAccounts bool `json:"manage_accounts"`
	ForwardRow     bool `json:"forward_row"`
}

// Table is the composed projection for one viewer.
type Table struct {
	Headers []string       `json:"headers"`
	Rows    []models.Order `json:"rows"`
	Actions Actions        `json:"actions"`
	// Surface is the landing view for the role: masters land on the
	// accounts list, everyone else on the order table.
	Surface string `json:"surface"`
}

// Compose filters rows down to what the session may see and attaches the
// role's action surface. A client sees exactly the rows whose owner id
// equals its user id; unresolved rows (owner id "") match no client.
func Compose(session Session, headers []string, rows []models.Order) Table {
	visible := rows
	if !rbac.Can(session.Role, rbac.CapViewAllRows) {
		visible = filterByOwner(rows, session.UserID.String())
	}

	surface := "dashboard"
	if session.Role == rbac.RoleMaster {
		surface = "accounts"
	}

	return Table{
		Headers: headers,
		Rows:    visible,
		Actions: actionsFor(session.Role),
		Surface: surface,
	}
}

// ComposeForAccount is the master's drill-down: the full table narrowed
// to one selected account's orders.
func ComposeForAccount(session Session, headers []string, rows []models.Order, accountID uuid.UUID) Table {
	table := Compose(session, headers, rows)
	table.Rows = filterByOwner(table.Rows, accountID.String())
	return table
}

func filterByOwner(rows []models.Order, ownerID string) []models.Order {
	filtered := []models.Order{}
	for _, row := range rows {
		if row.OwnerID != "" && row.OwnerID == ownerID {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func actionsFor(role rbac.Role) Actions {
	return Actions{
		EditCells:      rbac.Can(role, rbac.CapEditCells),
		EditStatus:     rbac.Can(role, rbac.CapEditStatus),
		CreateRow:      rbac.Can(role, rbac.CapCreateRow),
		DeleteRow:      rbac.Can(role, rbac.CapDeleteRow),
		ManageAccounts: rbac.Can(role, rbac.CapManageAccounts),
		ForwardRow:     rbac.Can(role, rbac.CapForwardRow),
	}
}

// ForwardLinks is the share surface for one row: a WhatsApp link, a
// mailto link and plain text for the clipboard.
type ForwardLinks struct {
	WhatsAppURL string `json:"whatsapp_url"`
	MailtoURL   string `json:"mailto_url"`
	Text        string `json:"text"`
}

// ComposeForward builds the share payloads from a row's columns and
// status.
func ComposeForward(order models.Order) ForwardLinks {
	joined := strings.Join(order.Columns, " | ")
	text := fmt.Sprintf("%s | Status: %s", joined, order.Status)
	whatsappText := fmt.Sprintf("Pedido/Registro: %s - Status: %s", joined, order.Status)
	mailtoBody := strings.Join(order.Columns, "\n") + "\n\nStatus: " + order.Status

	return ForwardLinks{
		WhatsAppURL: "https://wa.me/?text=" + url.QueryEscape(whatsappText),
		MailtoURL: fmt.Sprintf("mailto:?subject=%s&body=%s",
			url.QueryEscape("Registro "+order.ID.String()), url.QueryEscape(mailtoBody)),
		Text: text,
	}
}
