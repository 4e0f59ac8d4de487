package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultConfigFile is read when present in the working directory.
const DefaultConfigFile = "config.yaml"

// Config holds all application configuration. Values come from an optional
// YAML file; environment variables (including a .env file) override them.
// Secrets only come from the environment.
type Config struct {
	// Dataset
	DataSource         string `yaml:"data_source" env:"DATA_SOURCE" env-default:"csv"`
	DataPath           string `yaml:"data_path" env:"DATA_PATH" env-default:"./data/new cleaned data.csv"`
	RowLimit           int    `yaml:"row_limit" env:"ROW_LIMIT" env-default:"10"`
	IncludeUSAggregate bool   `yaml:"include_us_aggregate" env:"INCLUDE_US_AGGREGATE" env-default:"false"`

	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Polish   PolishConfig   `yaml:"polish"`

	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:":8080"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	// Batch answering and connection retries
	MaxConcurrency int `yaml:"max_concurrency" env:"MAX_CONCURRENCY" env-default:"4"`
	RateLimitMs    int `yaml:"rate_limit_ms" env:"RATE_LIMIT_MS" env-default:"0"`
	MaxRetries     int `yaml:"max_retries" env:"MAX_RETRIES" env-default:"5"`

	// CleanYears are the calendar years the clean command aggregates.
	CleanYears []int `yaml:"clean_years" env:"CLEAN_YEARS" env-separator:"," env-default:"2021,2022,2023,2024,2025"`
}

// PostgresConfig holds the connection settings for the metro store.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"rent"`
	Password string `yaml:"-" env:"POSTGRES_PASSWORD"`
	DB       string `yaml:"db" env:"POSTGRES_DB" env-default:"rental_db"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSLMODE" env-default:"disable"`
}

// RedisConfig configures the optional chat response cache. An empty Addr
// disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR" env-default:""`
	Password string        `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	Prefix   string        `yaml:"prefix" env:"REDIS_PREFIX" env-default:"metro:chat:"`
	TTL      time.Duration `yaml:"ttl" env:"CACHE_TTL" env-default:"1h"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// PolishConfig configures the optional LLM rewrite of replies.
type PolishConfig struct {
	Provider string        `yaml:"provider" env:"POLISH_PROVIDER" env-default:"none"`
	Model    string        `yaml:"model" env:"POLISH_MODEL" env-default:""`
	APIKey   string        `yaml:"-" env:"POLISH_API_KEY"`
	BaseURL  string        `yaml:"base_url" env:"POLISH_BASE_URL" env-default:""`
	Timeout  time.Duration `yaml:"timeout" env:"POLISH_TIMEOUT" env-default:"20s"`
}

// Load reads config.yaml from the working directory when it exists, then
// applies environment overrides.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{}
	if path != "" && fileExists(path) {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case "csv", "postgres":
	default:
		return fmt.Errorf("unknown data_source %q (want csv or postgres)", c.DataSource)
	}
	if c.RowLimit < 1 {
		return errors.New("row_limit must be positive")
	}
	switch c.Polish.Provider {
	case "", "none", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown polish provider %q", c.Polish.Provider)
	}
	if len(c.CleanYears) == 0 {
		return errors.New("clean_years must not be empty")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	p := c.Postgres
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + p.SSLMode
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
