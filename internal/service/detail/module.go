package detail

import "go.uber.org/fx"

// Module provides the order detail service to Fx.
var Module = fx.Provide(NewService)
