package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
	StorageMemory = "memory"

	RehydrateRevalidate = "revalidate"
	RehydrateTrustCache = "trust-cache"
)

// Config holds all configuration values. Keys match environment variable
// names; a roomify.yaml file may set the same keys.
type Config struct {
	APIBaseURL   string `mapstructure:"API_BASE_URL"`
	AssetBaseURL string `mapstructure:"ASSET_BASE_URL"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	StoragePath   string `mapstructure:"STORAGE_PATH"`
	MySQLURL      string `mapstructure:"MYSQL_URL"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPass        string `mapstructure:"DB_PASS"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBName        string `mapstructure:"DB_NAME"`

	// HTTPTimeout of 0 leaves the transport defaults in charge.
	HTTPTimeout          time.Duration `mapstructure:"HTTP_TIMEOUT"`
	BookingRedirectDelay time.Duration `mapstructure:"BOOKING_REDIRECT_DELAY"`
	UserRehydrate        string        `mapstructure:"USER_REHYDRATE"`
	AdminRehydrate       string        `mapstructure:"ADMIN_REHYDRATE"`

	MockAddr      string `mapstructure:"MOCK_ADDR"`
	MockJWTSecret string `mapstructure:"MOCK_JWT_SECRET"`
	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
}

var defaults = map[string]interface{}{
	"API_BASE_URL":           "http://localhost:6543/api",
	"ASSET_BASE_URL":         "http://localhost:6543",
	"ENV":                    "development",
	"LOG_LEVEL":              "info",
	"STORAGE_DRIVER":         StorageSQLite,
	"STORAGE_PATH":           "roomify.db",
	"MYSQL_URL":              "",
	"DATABASE_URL":           "",
	"DB_USER":                "root",
	"DB_PASS":                "",
	"DB_HOST":                "127.0.0.1",
	"DB_PORT":                "3306",
	"DB_NAME":                "roomify_client",
	"HTTP_TIMEOUT":           "0s",
	"BOOKING_REDIRECT_DELAY": "2s",
	"USER_REHYDRATE":         RehydrateRevalidate,
	"ADMIN_REHYDRATE":        RehydrateTrustCache,
	"MOCK_ADDR":              ":6543",
	"MOCK_JWT_SECRET":        "",
	"CORS_ORIGINS":           "",
}

// Load reads .env (optional), then roomify.yaml (optional, or the explicit
// file when path is set), then the environment, over built-in defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("roomify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageSQLite, StorageMySQL, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	for name, value := range map[string]string{
		"USER_REHYDRATE":  c.UserRehydrate,
		"ADMIN_REHYDRATE": c.AdminRehydrate,
	} {
		switch value {
		case RehydrateRevalidate, RehydrateTrustCache:
		default:
			return fmt.Errorf("unknown %s %q", name, value)
		}
	}

	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.BookingRedirectDelay < 0 {
		return errors.New("BOOKING_REDIRECT_DELAY must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CORSOriginList splits CORS_ORIGINS; empty means "*".
func (c *Config) CORSOriginList() []string {
	raw := strings.TrimSpace(c.CORSOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
