package http

import (
	"go.uber.org/fx"

	detailtransport "github.com/calvoclucas/app-mdw-2025/internal/transport/http/detail"
	historytransport "github.com/calvoclucas/app-mdw-2025/internal/transport/http/history"
	ordertransport "github.com/calvoclucas/app-mdw-2025/internal/transport/http/order"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	detailtransport.Module,
	historytransport.Module,
)
