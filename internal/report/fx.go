package report

import (
	"github.com/smallbiznis/airnex/internal/report/repository"
	"github.com/smallbiznis/airnex/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
