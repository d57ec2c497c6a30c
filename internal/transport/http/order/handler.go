package order

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	"github.com/calvoclucas/app-mdw-2025/internal/dto"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/internal/presentation/http/response"
	service "github.com/calvoclucas/app-mdw-2025/internal/service/order"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/transport/http/order")

// OrderService is the slice of the order service the handler needs.
type OrderService interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*entity.Order, error)
	Transition(ctx context.Context, id int64, next entity.Status, role entity.Role) (*entity.Order, error)
	Update(ctx context.Context, id int64, total *float64, estimatedMinutes *int) (*entity.Order, error)
	Get(ctx context.Context, id int64) (*entity.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]entity.Order, error)
	ListByCompany(ctx context.Context, companyID int64) ([]entity.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc OrderService
}

// NewHandler constructs an order Handler.
func NewHandler(svc OrderService) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance and access guard.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/orders")
	g.POST("", h.create, guard.Required, guard.Roles(entity.RoleCustomer))
	g.GET("/by-customer/:id", h.listByCustomer, guard.Required, guard.Roles(entity.RoleCustomer))
	g.GET("/by-company/:id", h.listByCompany, guard.Required, guard.Roles(entity.RoleCompany))
	g.GET("/:id", h.getByID, guard.Optional)
	g.PUT("/:id", h.update, guard.Required, guard.Roles(entity.RoleCustomer, entity.RoleCompany))
	g.DELETE("/:id", h.remove, guard.Required, guard.Roles(entity.RoleCompany))
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		CustomerID       int64   `json:"customer_id"`
		CompanyID        int64   `json:"company_id"`
		PaymentMethodID  int64   `json:"payment_method_id"`
		AddressID        int64   `json:"address_id"`
		Total            float64 `json:"total"`
		Status           string  `json:"status"`
		EstimatedMinutes int     `json:"estimated_minutes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}
	if payload.Status != "" && payload.Status != string(entity.StatusPending) {
		return b.WithError(errorbank.BadRequest("new orders must start as pendiente")).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int64("order.customer_id", payload.CustomerID),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, service.CreateOrderInput{
		CustomerID:       payload.CustomerID,
		CompanyID:        payload.CompanyID,
		PaymentMethodID:  payload.PaymentMethodID,
		AddressID:        payload.AddressID,
		Total:            payload.Total,
		EstimatedMinutes: payload.EstimatedMinutes,
	})
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) listByCustomer(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listByCustomer", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	orders, err := h.svc.ListByCustomer(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrders(orders)).Build()
}

func (h *Handler) listByCompany(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.listByCompany", trace.WithAttributes(attribute.Int64("company.id", id)))
	defer span.End()

	orders, err := h.svc.ListByCompany(ctx, id)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(dto.FromOrders(orders)).Build()
}

// update handles the partial order edit. A status field in the payload is a
// transition request driven by the caller's role; other fields are a plain
// attribute edit.
func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	var payload struct {
		Status           *string  `json:"status"`
		Total            *float64 `json:"total"`
		EstimatedMinutes *int     `json:"estimated_minutes"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("invalid payload", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if payload.Status != nil {
		next, err := entity.ParseStatus(*payload.Status)
		if err != nil {
			return b.WithError(errorbank.BadRequest("unknown status", errorbank.WithCause(err))).Build()
		}
		order, err := h.svc.Transition(ctx, id, next, auth.FromContext(c).Role)
		if err != nil {
			return b.WithError(err).Build()
		}
		return b.WithData(dto.FromOrder(order)).Build()
	}

	order, err := h.svc.Update(ctx, id, payload.Total, payload.EstimatedMinutes)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.FromOrder(order)).Build()
}

func (h *Handler) remove(c echo.Context) error {
	b := response.New(c)

	id, err := parseID(c)
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := h.svc.Delete(ctx, id); err != nil {
		return b.WithError(err).Build()
	}

	return b.WithData(map[string]string{"message": "order deleted"}).Build()
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errorbank.BadRequest("invalid id", errorbank.WithCause(err))
	}
	return id, nil
}
