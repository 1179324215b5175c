package recommendation

import (
	"github.com/smallbiznis/airnex/internal/recommendation/generator"
	"github.com/smallbiznis/airnex/internal/recommendation/repository"
	"github.com/smallbiznis/airnex/internal/recommendation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recommendation.service",
	fx.Provide(repository.Provide),
	fx.Provide(generator.New),
	fx.Provide(service.New),
)
