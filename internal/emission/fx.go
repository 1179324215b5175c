package emission

import (
	"github.com/smallbiznis/airnex/internal/emission/repository"
	"github.com/smallbiznis/airnex/internal/emission/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emission.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
