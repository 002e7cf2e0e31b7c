// Package rbac maps platform roles to the capabilities they hold over
// the order table. The mapping is pure and has no I/O.
package rbac

type Role string
type Capability string

const (
	RoleMaster   Role = "MASTER"
	RoleOperator Role = "OPERATOR"
	RoleClient   Role = "CLIENT"
)

const (
	// CapViewAllRows: see every order. Clients without it see only rows
	// whose owner id equals their own user id.
	CapViewAllRows    Capability = "view_all_rows"
	CapEditCells      Capability = "edit_cells"
	CapEditStatus     Capability = "edit_status"
	CapCreateRow      Capability = "create_row"
	CapDeleteRow      Capability = "delete_row"
	CapManageAccounts Capability = "manage_accounts"
	CapForwardRow     Capability = "forward_row"
)

// Can reports whether role holds cap.
//
// MASTER holds edit_status even though the default master surface is the
// accounts view rather than the table; hiding it there is routing policy,
// not permission.
func Can(role Role, cap Capability) bool {
	switch role {
	case RoleMaster:
		return true
	case RoleOperator:
		switch cap {
		case CapViewAllRows, CapEditCells, CapEditStatus, CapCreateRow, CapDeleteRow:
			return true
		}
		return false
	case RoleClient:
		return false
	default:
		return false
	}
}

// Normalize coerces an unknown role string to the least-privileged role.
func Normalize(role string) Role {
	switch Role(role) {
	case RoleMaster, RoleOperator, RoleClient:
		return Role(role)
	default:
		return RoleClient
	}
}
