package detail

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
	service "github.com/calvoclucas/app-mdw-2025/internal/service/detail"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/calvoclucas/app-mdw-2025/transport/http/detail")

// DetailService is the slice of the detail service the handler needs.
type DetailService interface {
	Create(ctx context.Context, items []service.Item) ([]entity.OrderDetail, []string, error)
	ListByOrder(ctx context.Context, orderID int64) ([]entity.OrderDetail, error)
}

// Handler exposes order detail endpoints over HTTP.
type Handler struct {
	svc DetailService
}

// NewHandler constructs a detail Handler.
func NewHandler(svc DetailService) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance and access guard.
func Register(e *echo.Echo, h *Handler, guard *auth.Guard) {
	g := e.Group("/order-details")
	g.POST("", h.create, guard.Required, guard.Roles(entity.RoleCustomer))
	g.GET("/by-order/:id", h.listByOrder, guard.Optional)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload struct {
		Detalles []struct {
			OrderID   int64   `json:"order_id"`
			ProductID int64   `json:"product_id"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"detalles"`
	}
	if err := c.Bind(&payload); err != nil {
		return b.WithError(errorbank.BadRequest("detalles must be an array", errorbank.WithCause(err))).Build()
	}

	items := make([]service.Item, 0, len(payload.Detalles))
	for _, d := range payload.Detalles {
		items = append(items, service.Item{
			OrderID:   d.OrderID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
		})
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "details.create", trace.WithAttributes(attribute.Int("detail.count", len(items))))
	defer span.End()

	details, warnings, err := h.svc.Create(ctx, items)
	if err != nil {
		return b.WithError(err).Build()
	}

	return b.WithStatus(http.StatusCreated).
		WithWarnings(warnings).
		WithData(dto.FromOrderDetails(details)).
		Build()
}

// listByOrder keeps the storefront's contract: an order with no details is
// reported as not found, not as an empty collection.
func (h *Handler) listByOrder(c echo.Context) error {
	b := response.New(c)

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid id", errorbank.WithCause(err))).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "details.listByOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	details, err := h.svc.ListByOrder(ctx, orderID)
	if err != nil {
		return b.WithError(err).Build()
	}
	if len(details) == 0 {
		return b.WithError(errorbank.NotFound("no details for order")).Build()
	}

	return b.WithData(dto.FromOrderDetails(details)).Build()
}
