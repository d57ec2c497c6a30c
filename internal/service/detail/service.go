package detail

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	catalogrepo "github.com/calvoclucas/app-mdw-2025/internal/repository/catalog"
	repo "github.com/calvoclucas/app-mdw-2025/internal/repository/detail"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/service/detail")

// detailStore is the slice of the detail repository the service depends on.
type detailStore interface {
	InsertBatch(ctx context.Context, details []entity.OrderDetail) error
	ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error)
}

// stockAdjuster is the product-catalog collaborator. It fails independently
// of detail creation.
type stockAdjuster interface {
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}

// Item is one line of a checkout batch.
type Item struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice float64
}

// Service persists order line items once at checkout and performs the
// follow-up stock decrement. Detail creation is the primary mutation; stock
// decrement failures are collected as warnings for the caller and logged,
// never rolled back (compensating-action policy: report and continue).
type Service struct {
	store   detailStore
	catalog stockAdjuster
	logger  *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Catalog    *catalogrepo.Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:   p.Repository,
		catalog: p.Catalog,
		logger:  p.Logger,
	}
}

// Create validates and persists a batch of line items in one insert, then
// decrements stock per item. The returned warnings list is empty when every
// decrement succeeded.
func (s *Service) Create(ctx context.Context, items []Item) ([]entity.OrderDetail, []string, error) {
	ctx, span := serviceTracer.Start(ctx, "DetailService.Create", trace.WithAttributes(attribute.Int("detail.count", len(items))))
	defer span.End()

	if len(items) == 0 {
		return nil, nil, errorbank.BadRequest("at least one detail is required")
	}

	now := time.Now().UTC()
	details := make([]entity.OrderDetail, 0, len(items))
	for i, item := range items {
		if item.OrderID <= 0 || item.ProductID <= 0 {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("detail %d: order and product ids are required", i))
		}
		if item.Quantity < 1 {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("detail %d: quantity must be at least 1", i))
		}
		if item.UnitPrice < 0 {
			return nil, nil, errorbank.BadRequest(fmt.Sprintf("detail %d: unit price must not be negative", i))
		}
		details = append(details, entity.OrderDetail{
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CreatedAt: now,
		})
	}

	if err := s.store.InsertBatch(ctx, details); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, nil, errorbank.Internal("failed to create details", errorbank.WithCause(err))
	}

	var warnings []string
	for _, item := range items {
		if s.catalog == nil {
			break
		}
		if err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			if s.logger != nil {
				s.logger.Warn("stock decrement failed",
					zap.Int64("product_id", item.ProductID),
					zap.Int("quantity", item.Quantity),
					zap.Error(err),
				)
			}
			warnings = append(warnings, fmt.Sprintf("stock decrement failed for product %d: %v", item.ProductID, err))
		}
	}

	return details, warnings, nil
}

// ListByOrder returns all line items of an order with products resolved. An
// order without details yields an empty slice, not an error.
func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error) {
	ctx, span := serviceTracer.Start(ctx, "DetailService.ListByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	details, err := s.store.ListByOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list details", errorbank.WithCause(err))
	}
	return details, nil
}
