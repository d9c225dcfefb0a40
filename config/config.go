package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	Store    StoreConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Shop     ShopConfig

	BoardPollInterval time.Duration
}

// StoreConfig points the front end at the Order Store backend.
type StoreConfig struct {
	BaseURL string
	Timeout time.Duration
	// Port the reference backend listens on.
	Port string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type ShopConfig struct {
	Name         string
	SupportPhone string
	TimeZone     string
	Location     *time.Location
}

// Load reads the front-end configuration from the environment, after an
// optional .env file.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Store.BaseURL == "" {
		return nil, fmt.Errorf("STORE_BASE_URL is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// LoadStore reads the configuration of the reference Order Store backend,
// which needs neither a store URL nor a JWT secret.
func LoadStore() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	_ = godotenv.Load()

	storeTimeout, err := getDuration("STORE_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}
	tokenTTL, err := getDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	poll, err := getDuration("BOARD_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	tz := getEnv("SHOP_TIMEZONE", "Africa/Johannesburg")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOP_TIMEZONE %q: %w", tz, err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "sqlite"))
	if driver != "sqlite" && driver != "mysql" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Store: StoreConfig{
			BaseURL: strings.TrimRight(os.Getenv("STORE_BASE_URL"), "/"),
			Timeout: storeTimeout,
			Port:    getEnv("STORE_PORT", "8081"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      tokenTTL,
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Database: DatabaseConfig{
			Driver: driver,
			DSN:    getEnv("DB_DSN", "paint_queue.db"),
		},
		Shop: ShopConfig{
			Name:         getEnv("SHOP_NAME", "Paint Queue System"),
			SupportPhone: getEnv("SUPPORT_PHONE", "083 579 6982"),
			TimeZone:     tz,
			Location:     loc,
		},
		BoardPollInterval: poll,
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go durations ("20s") or a bare number of seconds.
func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
