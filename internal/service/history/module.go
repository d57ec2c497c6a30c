package history

import "go.uber.org/fx"

// Module provides the history service to Fx.
var Module = fx.Provide(NewService)
