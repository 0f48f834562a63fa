package app

import (
	"go.uber.org/fx"

	"github.com/bookmint/inkwell/internal/cache"
	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/database"
	"github.com/bookmint/inkwell/internal/logger"
	"github.com/bookmint/inkwell/internal/mailer"
	"github.com/bookmint/inkwell/internal/messaging"
	"github.com/bookmint/inkwell/internal/observability"
	repositoryorder "github.com/bookmint/inkwell/internal/repository/order"
	repositoryreview "github.com/bookmint/inkwell/internal/repository/review"
	repositorysettings "github.com/bookmint/inkwell/internal/repository/settings"
	repositoryvisit "github.com/bookmint/inkwell/internal/repository/visit"
	httpserver "github.com/bookmint/inkwell/internal/server/http"
	serviceorder "github.com/bookmint/inkwell/internal/service/order"
	servicereview "github.com/bookmint/inkwell/internal/service/review"
	servicesettings "github.com/bookmint/inkwell/internal/service/settings"
	servicevisit "github.com/bookmint/inkwell/internal/service/visit"
	transporthttp "github.com/bookmint/inkwell/internal/transport/http"
	"github.com/bookmint/inkwell/internal/worker"
	workerorder "github.com/bookmint/inkwell/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	mailer.Module,
	messaging.Module,
	observability.Module,
	repositoryorder.Module,
	repositoryreview.Module,
	repositorysettings.Module,
	repositoryvisit.Module,
	servicesettings.Module,
	serviceorder.Module,
	servicereview.Module,
	servicevisit.Module,
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
