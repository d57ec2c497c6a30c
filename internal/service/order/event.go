package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

// OrderStatusEvent is emitted on order creation (empty OldStatus) and on
// every status transition. The event stream is the append-only audit trail
// complementing the latest-state row in order_history.
type OrderStatusEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	CustomerID int64     `json:"customer_id"`
	CompanyID  int64     `json:"company_id"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderStatusEvent builds the event for a mutation of order.
func NewOrderStatusEvent(order *entity.Order, old, next entity.Status, at time.Time) OrderStatusEvent {
	return OrderStatusEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		CompanyID:  order.CompanyID,
		OldStatus:  string(old),
		NewStatus:  string(next),
		Total:      order.Total,
		OccurredAt: at,
	}
}
