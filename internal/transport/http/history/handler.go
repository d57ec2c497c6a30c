package history

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	"github.com/calvoclucas/app-mdw-2025/internal/dto"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/internal/presentation/http/response"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/transport/http/history")

// HistoryService is the slice of the history service the handler needs.
type HistoryService interface {
	List(ctx context.Context) ([]entity.HistoryEntry, error)
	ListByOrder(ctx context.Context, orderID int64) ([]entity.HistoryEntry, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]entity.HistoryEntry, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entity.HistoryEntry, error)
}

// Handler exposes history read projections over HTTP.
type Handler struct {
	svc HistoryService
}

// NewHandler constructs a history Handler.
func NewHandler(svc HistoryService) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance and access guard.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/history")
	g.GET("", h.list, guard.Optional)
	g.GET("/by-order/:id", h.listByOrder, guard.Optional)
	g.GET("/by-customer/:id", h.listByCustomer, guard.Required, guard.Roles(entity.RoleCustomer))
	g.GET("/by-company/:id", h.listByCompany, guard.Required, guard.Roles(entity.RoleCompany))
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	ctx, span := httpTracer.Start(c.Request().Context(), "history.list")
	defer span.End()

	entries, err := h.svc.List(ctx)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromHistory(entries)).Build()
}

func (h *Handler) listByOrder(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "history.listByOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	entries, err := h.svc.ListByOrder(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromHistory(entries)).Build()
}

func (h *Handler) listByCustomer(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "history.listByCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	entries, err := h.svc.ListByCustomer(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromHistory(entries)).Build()
}

func (h *Handler) listByCompany(c echo.Context) error {
	b := response.New(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "history.listByCompany", trace.WithAttributes(attribute.Int64("company.id", id)))
	defer span.End()

	entries, err := h.svc.ListByCompany(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromHistory(entries)).Build()
}
