package entity

import "fmt"

// Status enumerates the order lifecycle states. The Spanish labels are the
// wire values used by the storefront and are stored verbatim.
type Status string

const (
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en progreso"
	StatusDelivered  Status = "entregado"
	StatusCancelled  Status = "cancelado"
)

// Role identifies which kind of actor is driving an operation.
type Role string

const (
	RoleCustomer Role = "cliente"
	RoleCompany  Role = "empresa"
	RoleGuest    Role = "invitado"
)

// transitions maps each non-terminal status to the statuses reachable from it
// and the role allowed to trigger each edge. Companies move orders forward,
// customers may cancel while the order is still in flight.
var transitions = map[Status]map[Status]Role{
	StatusPending: {
		StatusInProgress: RoleCompany,
		StatusCancelled:  RoleCustomer,
	},
	StatusInProgress: {
		StatusDelivered: RoleCompany,
		StatusCancelled: RoleCustomer,
	},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusInProgress, StatusDelivered, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("unknown order status %q", raw)
	}
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether role may move an order from one status to
// another. It returns false both for edges missing from the table and for
// edges the role is not allowed to trigger.
func CanTransition(from, to Status, role Role) bool {
	edges, ok := transitions[from]
	if !ok {
		return false
	}
	required, ok := edges[to]
	return ok && required == role
}
