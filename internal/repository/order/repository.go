package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/calvoclucas/app-mdw-2025/internal/database"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

var repoTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// ErrStatusConflict is returned when a compare-and-swap status update finds
// the order no longer in the expected status.
var ErrStatusConflict = errors.New("order status changed concurrently")

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new order using the write connection.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.Int64("order.customer_id", order.CustomerID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(order).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches an order with its references resolved, using the read
// replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).
		Relation("Customer").
		Relation("Company").
		Relation("PaymentMethod").
		Relation("Address").
		Where("o.id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// ListByCustomer returns all orders for a customer, references resolved.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error) {
	return r.list(ctx, "OrderRepository.ListByCustomer", "o.customer_id = ?", customerID)
}

// ListByCompany returns all orders for a company, references resolved.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]entity.Order, error) {
	return r.list(ctx, "OrderRepository.ListByCompany", "o.company_id = ?", companyID)
}

func (r *Repository) list(ctx context.Context, spanName, where string, arg int64) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, spanName)
	defer span.End()

	var orders []entity.Order
	err := r.reader.NewSelect().Model(&orders).
		Relation("Customer").
		Relation("Company").
		Relation("PaymentMethod").
		Relation("Address").
		Where(where, arg).
		Order("o.created_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves an order from one status to another with an optimistic
// check: the write only lands if the order is still in the expected status.
// Zero affected rows means either the order is gone or another writer won
// the race; callers disambiguate via a follow-up read.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to entity.Status, at time.Time) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status.from", string(from)),
		attribute.String("order.status.to", string(to)),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("status = ?", to).
		Set("updated_at = ?", at).
		Where("id = ?", id).
		Where("status = ?", from).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "status conflict")
		return ErrStatusConflict
	}
	return nil
}

// UpdateFields edits the mutable order attributes. Reference ids and status
// are deliberately not settable here.
func (r *Repository) UpdateFields(ctx context.Context, id int64, total *float64, estimatedMinutes *int, at time.Time) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateFields", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	q := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("updated_at = ?", at).
		Where("id = ?", id)
	if total != nil {
		q = q.Set("total = ?", *total)
	}
	if estimatedMinutes != nil {
		q = q.Set("estimated_minutes = ?", *estimatedMinutes)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes an order outright. No history or detail cascade; this is an
// administrative escape hatch, not part of the lifecycle.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().Model((*entity.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
