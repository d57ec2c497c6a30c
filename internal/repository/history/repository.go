package history

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/calvoclucas/app-mdw-2025/internal/database"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

var repoTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/repository/history")

// Repository maintains the derived audit rows for orders. The table keeps a
// single row per order; Upsert moves it to the latest status.
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

// Upsert records the order's current status, creating the row on first write
// and updating status and timestamp on every later one.
func (r *Repository) Upsert(ctx context.Context, orderID int64, status entity.Status, at time.Time) error {
	ctx, span := repoTracer.Start(ctx, "HistoryRepository.Upsert", trace.WithAttributes(
		attribute.Int64("order.id", orderID),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	entry := &entity.HistoryEntry{
		OrderID:    orderID,
		Status:     status,
		OccurredAt: at,
	}

	_, err := r.writer.NewInsert().Model(entry).
		On("CONFLICT (order_id) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("occurred_at = EXCLUDED.occurred_at").
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
	}
	return err
}

// ListAll returns every history entry, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]entity.HistoryEntry, error) {
	ctx, span := repoTracer.Start(ctx, "HistoryRepository.ListAll")
	defer span.End()

	var entries []entity.HistoryEntry
	err := r.reader.NewSelect().Model(&entries).
		Order("h.occurred_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return entries, nil
}

// ListByOrder returns the entry for a single order, if any.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]entity.HistoryEntry, error) {
	ctx, span := repoTracer.Start(ctx, "HistoryRepository.ListByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	var entries []entity.HistoryEntry
	err := r.reader.NewSelect().Model(&entries).
		Where("h.order_id = ?", orderID).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return entries, nil
}

// ListByCustomer filters entries by joining through orders. Entries whose
// order no longer exists drop out of the inner join instead of erroring.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]entity.HistoryEntry, error) {
	return r.listJoined(ctx, "HistoryRepository.ListByCustomer", "o.customer_id = ?", customerID)
}

// ListByCompany filters entries by joining through orders.
func (r *Repository) ListByCompany(ctx context.Context, companyID int64) ([]entity.HistoryEntry, error) {
	return r.listJoined(ctx, "HistoryRepository.ListByCompany", "o.company_id = ?", companyID)
}

func (r *Repository) listJoined(ctx context.Context, spanName, where string, arg int64) ([]entity.HistoryEntry, error) {
	ctx, span := repoTracer.Start(ctx, spanName)
	defer span.End()

	var entries []entity.HistoryEntry
	err := r.reader.NewSelect().Model(&entries).
		Join("JOIN orders AS o ON o.id = h.order_id").
		Where(where, arg).
		Order("h.occurred_at DESC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return entries, nil
}
