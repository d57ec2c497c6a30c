package history

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	repo "github.com/calvoclucas/app-mdw-2025/internal/repository/history"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/service/history")

// historyStore is the slice of the history repository the service depends on.
type historyStore interface {
	ListAll(ctx context.Context) ([]entity.HistoryEntry, error)
	ListByOrder(ctx context.Context, orderID int64) ([]entity.HistoryEntry, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]entity.HistoryEntry, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entity.HistoryEntry, error)
}

// Service exposes read projections over the derived audit rows. Writes only
// happen as a side effect of order mutations, never through this service.
type Service struct {
	store  historyStore
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{store: p.Repository, logger: p.Logger}
}

// List returns every history entry, newest first.
func (s *Service) List(ctx context.Context) ([]entity.HistoryEntry, error) {
	ctx, span := serviceTracer.Start(ctx, "HistoryService.List")
	defer span.End()

	entries, err := s.store.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list history", errorbank.WithCause(err))
	}
	return entries, nil
}

// ListByOrder returns the entry for one order, empty when none exists.
func (s *Service) ListByOrder(ctx context.Context, orderID int64) ([]entity.HistoryEntry, error) {
	ctx, span := serviceTracer.Start(ctx, "HistoryService.ListByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	entries, err := s.store.ListByOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list history", errorbank.WithCause(err))
	}
	return entries, nil
}

// ListByCustomer filters entries through their orders; entries whose order
// was deleted are excluded rather than erroring.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]entity.HistoryEntry, error) {
	ctx, span := serviceTracer.Start(ctx, "HistoryService.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	entries, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list history", errorbank.WithCause(err))
	}
	return entries, nil
}

// ListByCompany filters entries through their orders.
func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]entity.HistoryEntry, error) {
	ctx, span := serviceTracer.Start(ctx, "HistoryService.ListByCompany", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	entries, err := s.store.ListByCompany(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list history", errorbank.WithCause(err))
	}
	return entries, nil
}
