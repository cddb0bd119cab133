package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration for the application
// Values come from defaults, then an optional YAML file (CONFIG_FILE), then environment variables
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Admin     AdminConfig     `koanf:"admin"`
	Order     OrderConfig     `koanf:"order"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Assistant AssistantConfig `koanf:"assistant"`
	LogLevel  string          `koanf:"log_level"`
	LogFile   string          `koanf:"log_file"`
}

type ServerConfig struct {
	Port            string `koanf:"port"`
	Host            string `koanf:"host"`
	ReadTimeout     int    `koanf:"read_timeout"`
	WriteTimeout    int    `koanf:"write_timeout"`
	ShutdownTimeout int    `koanf:"shutdown_timeout"`
}

// StorageConfig selects the persistence adapter behind the catalog and admin session slots
type StorageConfig struct {
	Backend       string `koanf:"backend"` // memory or redis
	Prefix        string `koanf:"prefix"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

type AdminConfig struct {
	PIN       string `koanf:"pin"`
	JWTSecret string `koanf:"jwt_secret"`
	Issuer    string `koanf:"issuer"`
	TokenTTL  int    `koanf:"token_ttl"` // minutes
}

type OrderConfig struct {
	WhatsAppNumber  string `koanf:"whatsapp_number"`
	WhatsAppBaseURL string `koanf:"whatsapp_base_url"`
	Brand           string `koanf:"brand"`
	IDPrefix        string `koanf:"id_prefix"`
	Timezone        string `koanf:"timezone"`
}

type CatalogConfig struct {
	DefaultImageURL string `koanf:"default_image_url"`
}

type AssistantConfig struct {
	APIKey    string        `koanf:"api_key"`
	Model     string        `koanf:"model"`
	Endpoint  string        `koanf:"endpoint"`
	Timeout   time.Duration `koanf:"timeout"`
	RateRPS   float64       `koanf:"rate_rps"`
	RateBurst int           `koanf:"rate_burst"`
}

// DefaultJWTSecret is the placeholder admin token secret; it must be replaced
// whenever the session is persisted outside the process
const DefaultJWTSecret = "change-me"

// envKeys maps flat environment variable names onto config paths
var envKeys = map[string]string{
	"PORT":                   "server.port",
	"HOST":                   "server.host",
	"READ_TIMEOUT":           "server.read_timeout",
	"WRITE_TIMEOUT":          "server.write_timeout",
	"SHUTDOWN_TIMEOUT":       "server.shutdown_timeout",
	"STORAGE_BACKEND":        "storage.backend",
	"STORAGE_PREFIX":         "storage.prefix",
	"REDIS_ADDR":             "storage.redis_addr",
	"REDIS_PASSWORD":         "storage.redis_password",
	"REDIS_DB":               "storage.redis_db",
	"ADMIN_PIN":              "admin.pin",
	"ADMIN_JWT_SECRET":       "admin.jwt_secret",
	"ADMIN_TOKEN_ISSUER":     "admin.issuer",
	"ADMIN_TOKEN_TTL":        "admin.token_ttl",
	"WHATSAPP_NUMBER":        "order.whatsapp_number",
	"WHATSAPP_BASE_URL":      "order.whatsapp_base_url",
	"ORDER_BRAND":            "order.brand",
	"ORDER_ID_PREFIX":        "order.id_prefix",
	"ORDER_TIMEZONE":         "order.timezone",
	"DEFAULT_IMAGE_URL":      "catalog.default_image_url",
	"API_KEY":                "assistant.api_key",
	"ASSISTANT_API_KEY":      "assistant.api_key",
	"ASSISTANT_MODEL":        "assistant.model",
	"ASSISTANT_ENDPOINT":     "assistant.endpoint",
	"ASSISTANT_TIMEOUT":      "assistant.timeout",
	"DESCRIPTION_RATE_RPS":   "assistant.rate_rps",
	"DESCRIPTION_RATE_BURST": "assistant.rate_burst",
	"LOG_LEVEL":              "log_level",
	"LOG_FILE":               "log_file",
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
		},
		Storage: StorageConfig{
			Backend:   "memory",
			Prefix:    "wataburguer:",
			RedisAddr: "localhost:6379",
		},
		Admin: AdminConfig{
			PIN:       "1234",
			JWTSecret: DefaultJWTSecret,
			Issuer:    "wataburguer",
			TokenTTL:  720,
		},
		Order: OrderConfig{
			WhatsAppNumber:  "5511981637762",
			WhatsAppBaseURL: "https://wa.me/",
			Brand:           "WATABURGUER",
			IDPrefix:        "WATA",
			Timezone:        "America/Asuncion",
		},
		Catalog: CatalogConfig{
			DefaultImageURL: "https://images.unsplash.com/photo-1550547660-d9450f859349?auto=format&fit=crop&q=80&w=800",
		},
		Assistant: AssistantConfig{
			Model:     "gemini-3-flash-preview",
			RateRPS:   1,
			RateBurst: 5,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from CONFIG_FILE (if set) and environment variables
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Storage.Backend {
	case "memory":
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis storage backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (must be memory or redis)", c.Storage.Backend)
	}

	if len(c.Admin.PIN) != 4 || strings.Trim(c.Admin.PIN, "0123456789") != "" {
		return fmt.Errorf("ADMIN_PIN must be exactly 4 digits")
	}

	if c.Admin.JWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}

	if c.Storage.Backend == "redis" && c.Admin.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("ADMIN_JWT_SECRET must be changed from the default for the redis storage backend")
	}

	if c.Admin.TokenTTL <= 0 {
		return fmt.Errorf("ADMIN_TOKEN_TTL must be positive")
	}

	if c.Order.WhatsAppNumber == "" {
		return fmt.Errorf("WHATSAPP_NUMBER is required")
	}

	if _, err := time.LoadLocation(c.Order.Timezone); err != nil {
		return fmt.Errorf("invalid ORDER_TIMEZONE %q: %w", c.Order.Timezone, err)
	}

	return nil
}
