package app

import (
	"go.uber.org/fx"

	"github.com/calvoclucas/app-mdw-2025/internal/auth"
	"github.com/calvoclucas/app-mdw-2025/internal/cache"
	"github.com/calvoclucas/app-mdw-2025/internal/config"
	"github.com/calvoclucas/app-mdw-2025/internal/database"
	"github.com/calvoclucas/app-mdw-2025/internal/logger"
	"github.com/calvoclucas/app-mdw-2025/internal/messaging"
	"github.com/calvoclucas/app-mdw-2025/internal/observability"
	repositorycatalog "github.com/calvoclucas/app-mdw-2025/internal/repository/catalog"
	repositorydetail "github.com/calvoclucas/app-mdw-2025/internal/repository/detail"
	repositoryhistory "github.com/calvoclucas/app-mdw-2025/internal/repository/history"
	repositoryorder "github.com/calvoclucas/app-mdw-2025/internal/repository/order"
	httpserver "github.com/calvoclucas/app-mdw-2025/internal/server/http"
	servicedetail "github.com/calvoclucas/app-mdw-2025/internal/service/detail"
	servicehistory "github.com/calvoclucas/app-mdw-2025/internal/service/history"
	serviceorder "github.com/calvoclucas/app-mdw-2025/internal/service/order"
	transporthttp "github.com/calvoclucas/app-mdw-2025/internal/transport/http"
	"github.com/calvoclucas/app-mdw-2025/internal/worker"
	workerorder "github.com/calvoclucas/app-mdw-2025/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	auth.Module,
	repositoryorder.Module,
	repositorydetail.Module,
	repositoryhistory.Module,
	repositorycatalog.Module,
	serviceorder.Module,
	servicedetail.Module,
	servicehistory.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
