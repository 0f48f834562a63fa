package review

import (
	"go.uber.org/fx"

	orderrepo "github.com/bookmint/inkwell/internal/repository/order"
	repo "github.com/bookmint/inkwell/internal/repository/review"
)

// Module provides the review service to Fx.
var Module = fx.Provide(
	func(r *repo.Repository) Repository { return r },
	func(r *orderrepo.Repository) CompletedOrderLister { return r },
	NewService,
)
