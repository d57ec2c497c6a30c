package entity

import "github.com/uptrace/bun"

// Reference entities resolved when projecting orders for display. Their CRUD
// lives outside this service; the seeder inserts development rows.

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	ID    int64  `bun:",pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Email string `bun:"email,notnull"`
}

type Company struct {
	bun.BaseModel `bun:"table:companies"`

	ID   int64  `bun:",pk,autoincrement"`
	Name string `bun:"name,notnull"`
}

type PaymentMethod struct {
	bun.BaseModel `bun:"table:payment_methods"`

	ID    int64  `bun:",pk,autoincrement"`
	Label string `bun:"label,notnull"`
}

type Address struct {
	bun.BaseModel `bun:"table:addresses"`

	ID     int64  `bun:",pk,autoincrement"`
	Street string `bun:"street,notnull"`
	City   string `bun:"city,notnull"`
}

// Product carries the live stock counter decremented at checkout.
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID        int64   `bun:",pk,autoincrement"`
	CompanyID int64   `bun:"company_id,notnull"`
	Name      string  `bun:"name,notnull"`
	Price     float64 `bun:"price,notnull"`
	Stock     int     `bun:"stock,notnull"`
}
