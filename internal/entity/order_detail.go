package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderDetail is one line item of an order. UnitPrice is a point-in-time copy
// of the product price at checkout, not a live reference.
type OrderDetail struct {
	bun.BaseModel `bun:"table:order_details,alias:od"`

	ID        int64     `bun:",pk,autoincrement"`
	OrderID   int64     `bun:"order_id,notnull"`
	ProductID int64     `bun:"product_id,notnull"`
	Quantity  int       `bun:"quantity,notnull"`
	UnitPrice float64   `bun:"unit_price,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`

	Order   *Order   `bun:"rel:belongs-to,join:order_id=id"`
	Product *Product `bun:"rel:belongs-to,join:product_id=id"`
}
