package detail

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/calvoclucas/app-mdw-2025/internal/database"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

var repoTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/repository/detail")

// Repository encapsulates read/write access for order line items.
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

// InsertBatch persists all line items in a single multi-row insert.
func (r *Repository) InsertBatch(ctx context.Context, details []entity.OrderDetail) error {
	if len(details) == 0 {
		return errors.New("empty detail batch")
	}
	ctx, span := repoTracer.Start(ctx, "DetailRepository.InsertBatch", trace.WithAttributes(attribute.Int("detail.count", len(details))))
	defer span.End()

	_, err := r.writer.NewInsert().Model(&details).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// ListByOrder returns the line items of an order in insertion order, each
// with its product resolved. An order without details yields an empty slice.
func (r *Repository) ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error) {
	ctx, span := repoTracer.Start(ctx, "DetailRepository.ListByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	var details []entity.OrderDetail
	err := r.reader.NewSelect().Model(&details).
		Relation("Product").
		Where("od.order_id = ?", orderID).
		Order("od.id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return details, nil
}
