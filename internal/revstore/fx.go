package revstore

import "go.uber.org/fx"

var Module = fx.Module("revstore",
	fx.Provide(New),
)
