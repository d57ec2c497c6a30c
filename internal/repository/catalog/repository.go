package catalog

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

var repoTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/repository/catalog")

// ErrInsufficientStock is returned when a decrement would take stock negative
// or the product does not exist.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository adjusts product stock. It sits in its own failure domain:
// callers at checkout treat its errors as warnings, never as aborts.
type Repository struct {
	writer *bun.DB
}

// NewRepository wires a repository backed by the primary connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{writer: conns.Writer}
}

// DecrementStock atomically subtracts quantity from a product's stock,
// refusing to go below zero.
func (r *Repository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.DecrementStock", trace.WithAttributes(
		attribute.Int64("product.id", productID),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Product)(nil)).
		Set("stock = stock - ?", quantity).
		Where("id = ?", productID).
		Where("stock >= ?", quantity).
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
		span.SetStatus(codes.Error, "insufficient stock")
		return ErrInsufficientStock
	}
	return nil
}
