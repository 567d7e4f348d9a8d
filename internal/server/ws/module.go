package ws

import "go.uber.org/fx"

// Module registers the WebSocket hub for fx runtime.
var Module = fx.Provide(NewHub)
