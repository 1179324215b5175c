package migration

import (
	"github.com/smallbiznis/airnex/internal/config"
	"github.com/smallbiznis/airnex/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if !cfg.MigrateOnStart {
			log.Info("schema migrations disabled")
			return nil
		}

		if cfg.DBType == db.TypePostgres {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}
		return AutoMigrate(conn)
	}),
)
