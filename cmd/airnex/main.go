package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/classifier"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/company"
	"github.com/smallbiznis/airnex/internal/config"
	"github.com/smallbiznis/airnex/internal/dashboard"
	"github.com/smallbiznis/airnex/internal/emission"
	"github.com/smallbiznis/airnex/internal/migration"
	"github.com/smallbiznis/airnex/internal/observability"
	"github.com/smallbiznis/airnex/internal/providers"
	"github.com/smallbiznis/airnex/internal/recommendation"
	"github.com/smallbiznis/airnex/internal/report"
	"github.com/smallbiznis/airnex/internal/seed"
	"github.com/smallbiznis/airnex/internal/server"
	"github.com/smallbiznis/airnex/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		seed.Module,
		providers.Module,

		// Functional Domains
		classifier.Module,
		company.Module,
		emission.Module,
		dashboard.Module,
		recommendation.Module,
		report.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
