package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/airnex/internal/factor"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// factorsFile mirrors the factors.yml layout.
type factorsFile struct {
	Aliases    map[string]float64 `mapstructure:"aliases"`
	Categories []factor.Category  `mapstructure:"categories"`
}

// FactorTableHolder serves the current emission factor table. Reloads swap
// the whole table so readers never observe a partial catalog.
type FactorTableHolder struct {
	current atomic.Pointer[factor.Table]
}

// NewStaticFactorTableHolder pins a table, mostly for tests.
func NewStaticFactorTableHolder(table *factor.Table) *FactorTableHolder {
	h := &FactorTableHolder{}
	h.current.Store(table)
	return h
}

func (h *FactorTableHolder) Get() *factor.Table {
	return h.current.Load()
}

// NewFactorTableHolder reads factors.yml and watches it for changes. The
// built-in catalog is used when no file is found.
func NewFactorTableHolder(cfg Config, log *zap.Logger) (*FactorTableHolder, error) {
	log = log.Named("config.factors")

	v := viper.New()
	if cfg.FactorsConfigPath != "" {
		v.SetConfigFile(cfg.FactorsConfigPath)
	} else {
		v.SetConfigName("factors")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/airnex")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AIRNEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &FactorTableHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read factors config: %w", err)
		}
		log.Info("factors config not found, using built-in catalog")
		holder.current.Store(factor.DefaultTable())
		return holder, nil
	}

	table, err := loadFactorTable(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(table)

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := loadFactorTable(v)
		if err != nil {
			log.Warn("invalid factors config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("factors config reloaded", zap.String("file", e.Name), zap.Int("categories", len(updated.Categories())))
	})
	v.WatchConfig()

	return holder, nil
}

func loadFactorTable(v *viper.Viper) (*factor.Table, error) {
	var file factorsFile
	if err := v.UnmarshalKey("factors", &file); err != nil {
		return nil, fmt.Errorf("decode factors config: %w", err)
	}
	if len(file.Categories) == 0 {
		file.Categories = factor.DefaultCategories()
	}
	if file.Aliases == nil {
		file.Aliases = factor.DefaultAliases()
	}
	if err := factor.ValidateCategories(file.Categories); err != nil {
		return nil, err
	}
	return factor.NewTable(file.Aliases, file.Categories), nil
}
