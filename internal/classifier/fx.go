package classifier

import "go.uber.org/fx"

var Module = fx.Module("classifier",
	fx.Provide(New),
)
