package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/airnex/internal/clock"
	"github.com/smallbiznis/airnex/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module seeds the demo company outside production when SEED_DEMO_USER_ID
// names the user to own it.
var Module = fx.Module("seed",
	fx.Invoke(func(cfg config.Config, db *gorm.DB, node *snowflake.Node, factors *config.FactorTableHolder, clk clock.Clock, log *zap.Logger) error {
		if cfg.SeedDemoUserID == "" || cfg.IsProduction() {
			return nil
		}
		company, err := EnsureDemoCompany(context.Background(), db, node, factors.Get(), cfg.SeedDemoUserID, clk.Now())
		if err != nil {
			return err
		}
		log.Named("seed").Info("demo company ready",
			zap.String("company_id", company.ID.String()),
			zap.String("user_id", cfg.SeedDemoUserID),
		)
		return nil
	}),
)
