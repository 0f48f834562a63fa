package http

import (
	"go.uber.org/fx"

	ordertransport "github.com/bookmint/inkwell/internal/transport/http/order"
	reviewtransport "github.com/bookmint/inkwell/internal/transport/http/review"
	settingstransport "github.com/bookmint/inkwell/internal/transport/http/settings"
	visittransport "github.com/bookmint/inkwell/internal/transport/http/visit"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	ordertransport.Module,
	reviewtransport.Module,
	settingstransport.Module,
	visittransport.Module,
)
