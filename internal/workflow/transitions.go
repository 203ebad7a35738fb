// Package workflow models the order lifecycle as seen from the admin
// dashboard. The table is advisory: the upstream service remains the
// authority on transition legality.
package workflow

import "github.com/wearly/storefront-admin/internal/domain"

// Action is a UI affordance for an order in a given status.
type Action string

const (
	// ActionApprove and ActionReject are terminal unconditional actions
	// available only from REQUESTED; they carry no request body.
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	// ActionShip requires the shipment payload (carrier, tracking).
	ActionShip Action = "ship"
	// ActionUpdateStatus uses the generic status/description/location body.
	ActionUpdateStatus Action = "update_status"
)

var nextStatuses = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusPlaced:         {domain.OrderStatusShipped},
	domain.OrderStatusShipped:        {domain.OrderStatusOutForDelivery},
	domain.OrderStatusOutForDelivery: {domain.OrderStatusDelivered},
}

// NextStatuses returns the ordered list of statuses an order may move to
// from current. The result is empty for terminal or unknown statuses and
// for REQUESTED, which is resolved through approve/reject instead.
func NextStatuses(current domain.OrderStatus) []domain.OrderStatus {
	next, ok := nextStatuses[current]
	if !ok {
		return nil
	}
	out := make([]domain.OrderStatus, len(next))
	copy(out, next)
	return out
}

// ActionsFor returns the admin actions applicable to an order in the
// given status.
func ActionsFor(current domain.OrderStatus) []Action {
	switch current {
	case domain.OrderStatusRequested:
		return []Action{ActionApprove, ActionReject}
	case domain.OrderStatusPlaced:
		return []Action{ActionShip}
	case domain.OrderStatusShipped, domain.OrderStatusOutForDelivery:
		return []Action{ActionUpdateStatus}
	default:
		return nil
	}
}

// CanTransition reports whether moving from one status to another is a
// known-legal step in the generic status chain.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, s := range nextStatuses[from] {
		if s == to {
			return true
		}
	}
	return false
}
