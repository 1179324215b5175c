package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	MigrateOnStart    bool

	AuthJWTSecret string
	AuthJWTIssuer string

	LLM LLMConfig

	RedisAddr         string
	RedisPassword     string
	RateLimitAIPerMin int

	FactorsConfigPath string

	SeedDemoUserID string
}

type LLMConfig struct {
	BaseURL           string
	APIKey            string
	Model             string
	RequestsPerMinute int
}

// Enabled reports whether an external text-generation backend is configured.
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewFactorTableHolder),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:           getenv("APP_SERVICE", "airnex"),
		AppVersion:        getenv("APP_VERSION", "0.1.0"),
		Environment:       getenv("ENVIRONMENT", "development"),
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		NodeID:            int64(getenvInt("SNOWFLAKE_NODE_ID", 1)),
		OTLPEndpoint:      getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "airnex"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "airnex.db"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 10),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 50),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		MigrateOnStart:    getenvBool("DATABASE_MIGRATE_ON_START", true),
		AuthJWTSecret:     strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		AuthJWTIssuer:     strings.TrimSpace(getenv("AUTH_JWT_ISSUER", "")),
		LLM: LLMConfig{
			BaseURL:           strings.TrimSpace(getenv("LLM_BASE_URL", "https://api.mistral.ai/v1")),
			APIKey:            strings.TrimSpace(getenv("LLM_API_KEY", "")),
			Model:             strings.TrimSpace(getenv("LLM_MODEL", "mistral-small-latest")),
			RequestsPerMinute: getenvInt("LLM_REQUESTS_PER_MINUTE", 30),
		},
		RedisAddr:         strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RateLimitAIPerMin: getenvInt("RATE_LIMIT_AI_PER_MINUTE", 10),
		FactorsConfigPath: strings.TrimSpace(getenv("FACTORS_CONFIG_PATH", "")),
		SeedDemoUserID:    strings.TrimSpace(getenv("SEED_DEMO_USER_ID", "")),
	}
}

// IsProduction reports whether the service runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
