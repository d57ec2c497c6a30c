package seeder

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/database"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// References seeds the rows orders point at: customers, companies, payment
// methods, addresses and products. Existing rows are left untouched.
func (s *Seeder) References(ctx context.Context) error {
	customers := []entity.Customer{
		{ID: 1, Name: "Lucía Fernández", Email: "lucia@example.com"},
		{ID: 2, Name: "Marcos Pereyra", Email: "marcos@example.com"},
	}
	companies := []entity.Company{
		{ID: 1, Name: "Pizzería Don Carlos"},
		{ID: 2, Name: "Sushi Nikkei"},
	}
	paymentMethods := []entity.PaymentMethod{
		{ID: 1, Label: "efectivo"},
		{ID: 2, Label: "tarjeta"},
	}
	addresses := []entity.Address{
		{ID: 1, Street: "Av. Siempre Viva 742", City: "Córdoba"},
		{ID: 2, Street: "Bv. San Juan 1200", City: "Córdoba"},
	}
	products := []entity.Product{
		{ID: 1, CompanyID: 1, Name: "Muzzarella grande", Price: 850, Stock: 40},
		{ID: 2, CompanyID: 1, Name: "Napolitana", Price: 950, Stock: 25},
		{ID: 3, CompanyID: 2, Name: "Combo nikkei x12", Price: 1500, Stock: 15},
	}

	for _, insert := range []func(context.Context) error{
		func(ctx context.Context) error { return s.insertIgnoring(ctx, &customers) },
		func(ctx context.Context) error { return s.insertIgnoring(ctx, &companies) },
		func(ctx context.Context) error { return s.insertIgnoring(ctx, &paymentMethods) },
		func(ctx context.Context) error { return s.insertIgnoring(ctx, &addresses) },
		func(ctx context.Context) error { return s.insertIgnoring(ctx, &products) },
	} {
		if err := insert(ctx); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded reference data",
			zap.Int("customers", len(customers)),
			zap.Int("companies", len(companies)),
			zap.Int("products", len(products)),
		)
	}
	return nil
}

func (s *Seeder) insertIgnoring(ctx context.Context, models any) error {
	_, err := s.db.NewInsert().Model(models).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return err
}
