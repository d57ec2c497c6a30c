package history

import (
	"go.uber.org/fx"

	"github.com/labstack/echo/v4"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	service "github.com/calvoclucas/app-mdw-2025/internal/service/history"
)

// Module wires HTTP history handlers.
var Module = fx.Options(
	fx.Provide(func(svc *service.Service) *Handler {
		return NewHandler(svc)
	}),
	fx.Invoke(func(e *echo.Echo, h *Handler, guard *auth.Guard) {
		Register(e, h, guard)
	}),
)
