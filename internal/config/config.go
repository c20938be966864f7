package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type SupabaseConfig struct {
	URL       string `yaml:"url" env:"SUPABASE_URL"`
	AnonKey   string `yaml:"anon_key" env:"SUPABASE_URL_ANON_KEY"`
	JWTSecret string `yaml:"jwt_secret" env:"SUPABASE_JWT_SECRET"`
	JWKSURL   string `yaml:"jwks_url" env:"SUPABASE_JWKS_URL"`
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type MongoConfig struct {
	URI      string `yaml:"uri" env:"MONGODB_URI"`
	Password string `yaml:"password" env:"MONGODB_PASSWORD"`
	Database string `yaml:"database" env:"MONGODB_DATABASE"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `yaml:"api_key" env:"CLOUDINARY_API_KEY"`
	APISecret string `yaml:"api_secret" env:"CLOUDINARY_API_SECRET"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type Config struct {
	Port           string        `yaml:"port" env:"PORT"`
	Environment    string        `yaml:"environment" env:"ENVIRONMENT"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	StoreBackend   string        `yaml:"store_backend" env:"STORE_BACKEND"`
	EventTimezone  string        `yaml:"event_timezone" env:"EVENT_TIMEZONE"`
	CacheTTL       time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`

	Supabase   SupabaseConfig   `yaml:"supabase"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Redis      RedisConfig      `yaml:"redis"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`

	location *time.Location
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		Environment:    "development",
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:3000"},
		StoreBackend:   BackendSupabase,
		EventTimezone:  "UTC",
		CacheTTL:       time.Minute,
		Mongo:          MongoConfig{Database: "rendez"},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and finally environment variables.
func LoadConfig() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))

	var errs []error
	switch c.StoreBackend {
	case BackendSupabase:
		if c.Supabase.URL == "" {
			errs = append(errs, errors.New("SUPABASE_URL is required"))
		}
		if c.Supabase.AnonKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL_ANON_KEY is required"))
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case BackendMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required"))
		}
		if strings.Contains(c.Mongo.URI, "<password>") && c.Mongo.Password == "" {
			errs = append(errs, errors.New("MONGODB_PASSWORD is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	loc, err := time.LoadLocation(c.EventTimezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid EVENT_TIMEZONE %q", c.EventTimezone))
	}
	c.location = loc

	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("CACHE_TTL must not be negative"))
	}
	return errors.Join(errs...)
}

// Location is the zone event dates are anchored in when a request does not
// name one.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
