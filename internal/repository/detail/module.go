package detail

import "go.uber.org/fx"

// Module provides the order detail repository to Fx.
var Module = fx.Provide(NewRepository)
