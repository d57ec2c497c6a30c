package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// HistoryEntry is the derived audit record for an order. The table keeps at
// most one row per order (order_id is unique); each order mutation moves the
// row to the latest status and timestamp. The full per-transition trail lives
// in the published status event stream.
type HistoryEntry struct {
	bun.BaseModel `bun:"table:order_history,alias:h"`

	ID         int64     `bun:",pk,autoincrement"`
	OrderID    int64     `bun:"order_id,notnull,unique"`
	Status     Status    `bun:"status,notnull"`
	OccurredAt time.Time `bun:"occurred_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Order *Order `bun:"rel:belongs-to,join:order_id=id"`
}
