package settings

import (
	"go.uber.org/fx"

	repo "github.com/bookmint/inkwell/internal/repository/settings"
)

// Module provides the settings service to Fx.
var Module = fx.Provide(
	func(r *repo.Repository) Repository { return r },
	NewService,
)
