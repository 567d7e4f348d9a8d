package metrics

import "go.uber.org/fx"

// Module wires prometheus collectors for dependency injection.
var Module = fx.Provide(New)
