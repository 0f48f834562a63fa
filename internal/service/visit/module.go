package visit

import (
	"go.uber.org/fx"

	repo "github.com/bookmint/inkwell/internal/repository/visit"
)

// Module provides the visit service to Fx.
var Module = fx.Provide(
	func(r *repo.Repository) Repository { return r },
	NewService,
)
