package order

import (
	"go.uber.org/fx"

	repo "github.com/bookmint/inkwell/internal/repository/order"
	settingssvc "github.com/bookmint/inkwell/internal/service/settings"
)

// Module provides the order service to Fx.
var Module = fx.Provide(
	func(r *repo.Repository) Repository { return r },
	func(s *settingssvc.Service) SettingsSource { return s },
	NewService,
)
