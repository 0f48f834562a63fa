package visit

import "go.uber.org/fx"

// Module provides the visit repository to Fx.
var Module = fx.Provide(NewRepository)
