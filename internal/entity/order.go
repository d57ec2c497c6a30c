package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Order represents a customer's purchase request against one company. The
// four reference ids are required at creation and never change afterwards.
type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID               int64     `bun:",pk,autoincrement"`
	CustomerID       int64     `bun:"customer_id,notnull"`
	CompanyID        int64     `bun:"company_id,notnull"`
	PaymentMethodID  int64     `bun:"payment_method_id,notnull"`
	AddressID        int64     `bun:"address_id,notnull"`
	Status           Status    `bun:"status,notnull"`
	Total            float64   `bun:"total,notnull"`
	EstimatedMinutes int       `bun:"estimated_minutes,nullzero"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero"`

	Customer      *Customer      `bun:"rel:belongs-to,join:customer_id=id"`
	Company       *Company       `bun:"rel:belongs-to,join:company_id=id"`
	PaymentMethod *PaymentMethod `bun:"rel:belongs-to,join:payment_method_id=id"`
	Address       *Address       `bun:"rel:belongs-to,join:address_id=id"`
}
