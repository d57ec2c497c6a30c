package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/cache"
	"github.com/calvoclucas/app-mdw-2025/internal/config"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/internal/messaging"
	historyrepo "github.com/calvoclucas/app-mdw-2025/internal/repository/history"
	repo "github.com/calvoclucas/app-mdw-2025/internal/repository/order"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/service/order")

// orderStore is the slice of the order repository the service depends on.
type orderStore interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to entity.Status, at time.Time) error
	UpdateFields(ctx context.Context, id int64, total *float64, estimatedMinutes *int, at time.Time) (*entity.Order, error)
	Delete(ctx context.Context, id int64) error
}

// historyRecorder receives the derived audit write after every mutation.
type historyRecorder interface {
	Upsert(ctx context.Context, orderID int64, status entity.Status, at time.Time) error
}

// Service owns the order status state machine and its side effects. Every
// successful create or transition records history and publishes a status
// event. History and event writes are best-effort: a failure there is logged
// and never rolls back the order mutation.
type Service struct {
	store     orderStore
	history   historyRecorder
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	messaging messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// CreateOrderInput carries the validated checkout payload.
type CreateOrderInput struct {
	CustomerID       int64
	CompanyID        int64
	PaymentMethodID  int64
	AddressID        int64
	Total            float64
	EstimatedMinutes int
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	History    *historyrepo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:     p.Repository,
		history:   p.History,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// Create validates a checkout request and persists the order in the
// `pendiente` state, recording its first history entry.
func (s *Service) Create(ctx context.Context, in CreateOrderInput) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("order.customer_id", in.CustomerID),
		attribute.Int64("order.company_id", in.CompanyID),
	))
	defer span.End()

	if in.CustomerID <= 0 || in.CompanyID <= 0 || in.PaymentMethodID <= 0 || in.AddressID <= 0 {
		return nil, errorbank.BadRequest("customer, company, payment method and address ids are required")
	}
	if in.Total < 0 {
		return nil, errorbank.BadRequest("total must not be negative")
	}
	if in.EstimatedMinutes < 0 {
		return nil, errorbank.BadRequest("estimated minutes must not be negative")
	}

	now := time.Now().UTC()
	order := &entity.Order{
		CustomerID:       in.CustomerID,
		CompanyID:        in.CompanyID,
		PaymentMethodID:  in.PaymentMethodID,
		AddressID:        in.AddressID,
		Status:           entity.StatusPending,
		Total:            in.Total,
		EstimatedMinutes: in.EstimatedMinutes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.recordHistory(ctx, order.ID, order.Status, now)
	s.publishStatusEvent(ctx, order, "", order.Status, now)
	s.refreshCache(ctx, order)

	return order, nil
}

// Transition moves an order along the lifecycle table on behalf of an actor
// role. The status write is a compare-and-swap: if another writer changed the
// status since it was read, the call fails with a conflict instead of
// clobbering the newer state.
func (s *Service) Transition(ctx context.Context, id int64, next entity.Status, role entity.Role) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Transition", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status.next", string(next)),
		attribute.String("actor.role", string(role)),
	))
	defer span.End()

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	current := order.Status
	if current == next {
		// already there; report the edge as invalid rather than silently
		// rewriting timestamps
		return nil, invalidTransition(current, next)
	}
	if !entity.CanTransition(current, next, role) {
		span.SetStatus(codes.Error, "invalid transition")
		return nil, invalidTransition(current, next)
	}

	now := time.Now().UTC()
	if err := s.store.UpdateStatus(ctx, id, current, next, now); err != nil {
		if errors.Is(err, repo.ErrStatusConflict) {
			span.SetStatus(codes.Error, "status conflict")
			return nil, errorbank.Conflict("order was modified concurrently")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	order.Status = next
	order.UpdatedAt = now

	s.recordHistory(ctx, order.ID, next, now)
	s.publishStatusEvent(ctx, order, current, next, now)
	s.refreshCache(ctx, order)

	return order, nil
}

// Update edits the mutable order attributes (total, estimated minutes).
// Reference ids are immutable and status changes go through Transition.
func (s *Service) Update(ctx context.Context, id int64, total *float64, estimatedMinutes *int) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if total == nil && estimatedMinutes == nil {
		return nil, errorbank.BadRequest("nothing to update")
	}
	if total != nil && *total < 0 {
		return nil, errorbank.BadRequest("total must not be negative")
	}
	if estimatedMinutes != nil && *estimatedMinutes < 0 {
		return nil, errorbank.BadRequest("estimated minutes must not be negative")
	}

	order, err := s.store.UpdateFields(ctx, id, total, estimatedMinutes, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to update order", errorbank.WithCause(err))
	}

	s.refreshCache(ctx, order)
	return order, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		if s.logger != nil {
			s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
		}
	}

	order, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	s.refreshCache(ctx, order)
	return order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListByCustomer", trace.WithAttributes(attribute.Int64("customer.id", customerID)))
	defer span.End()

	orders, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// ListByCompany returns the company's orders, newest first.
func (s *Service) ListByCompany(ctx context.Context, companyID int64) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.ListByCompany", trace.WithAttributes(attribute.Int64("company.id", companyID)))
	defer span.End()

	orders, err := s.store.ListByCompany(ctx, companyID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Delete removes an order outright. Administrative escape hatch only; no
// cascade over details or history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil && s.logger != nil {
			s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
		}
	}
	return nil
}

func invalidTransition(from, to entity.Status) error {
	return errorbank.Conflict(
		fmt.Sprintf("cannot move order from %q to %q", from, to),
		errorbank.WithDetail("from", string(from)),
		errorbank.WithDetail("to", string(to)),
	)
}

func (s *Service) recordHistory(ctx context.Context, orderID int64, status entity.Status, at time.Time) {
	if s.history == nil {
		return
	}
	if err := s.history.Upsert(ctx, orderID, status, at); err != nil && s.logger != nil {
		s.logger.Warn("history write failed",
			zap.Int64("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

func (s *Service) publishStatusEvent(ctx context.Context, order *entity.Order, old, next entity.Status, at time.Time) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := NewOrderStatusEvent(order, old, next, at)
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("marshal order status event", zap.Error(err))
		}
		return
	}
	if err := s.publisher.Publish(ctx, []byte(fmt.Sprintf("order-%d", order.ID)), payload); err != nil {
		if s.logger != nil {
			s.logger.Error("publish order status event", zap.Error(err))
		}
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	if s.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) refreshCache(ctx context.Context, order *entity.Order) {
	if s.cache == nil || order == nil {
		return
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("orders cache encode failed", zap.Int64("id", order.ID), zap.Error(err))
		}
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}
}
