// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	UPCDB      UPCDBConfig      `yaml:"upcdb"`
	AI         AIConfig         `yaml:"ai"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// CatalogConfig defines the product catalog provider settings.
// With empty credentials the provider is treated as unconfigured and the
// identifier/title lookups degrade to "no data" instead of failing.
type CatalogConfig struct {
	Endpoint   string          `yaml:"endpoint"`
	AccessKey  string          `yaml:"access_key"`
	SecretKey  string          `yaml:"secret_key"`
	PartnerTag string          `yaml:"partner_tag"`
	Timeout    time.Duration   `yaml:"timeout"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// Configured reports whether the catalog provider credentials are present.
func (c *CatalogConfig) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != ""
}

// RateLimitConfig defines catalog API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// UPCDBConfig defines the UPC database fallback provider settings.
type UPCDBConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AIConfig defines the chat-completion backend used for item analysis and
// the opt-in AI identifier lookup.
type AIConfig struct {
	Endpoint            string        `yaml:"endpoint"`
	Model               string        `yaml:"model"`
	APIKey              string        `yaml:"api_key"`
	Timeout             time.Duration `yaml:"timeout"`
	EnableASINLookup    bool          `yaml:"enable_asin_lookup"`
	Temperature         float64       `yaml:"temperature"`
	MaxCompletionTokens int           `yaml:"max_completion_tokens"`
}

// Configured reports whether an AI backend is usable.
func (a *AIConfig) Configured() bool {
	return a.Endpoint != "" && a.APIKey != ""
}

// EnrichmentConfig defines batch-enrichment behavior.
type EnrichmentConfig struct {
	MaxWorkers    int           `yaml:"max_workers"`
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// ScheduleConfig defines how often unfinished uploads are processed.
type ScheduleConfig struct {
	ProcessInterval time.Duration `yaml:"process_interval"`
	ItemBatchSize   int           `yaml:"item_batch_size"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file in the working directory, when
// present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyCatalogDefaults(&cfg.Catalog)
	applyUPCDBDefaults(&cfg.UPCDB)
	applyAIDefaults(&cfg.AI)
	applyEnrichmentDefaults(&cfg.Enrichment)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Endpoint == "" {
		c.Endpoint = "https://catalog.sndflo.com/v1"
	}
	if c.PartnerTag == "" {
		c.PartnerTag = "sndflo-20"
	}
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = 1.0
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 2
	}
	if c.RateLimit.DailyLimit == 0 {
		c.RateLimit.DailyLimit = 8640
	}
}

func applyUPCDBDefaults(u *UPCDBConfig) {
	if u.Endpoint == "" {
		u.Endpoint = "https://api.upcitemdb.com/prod/trial"
	}
	if u.Timeout == 0 {
		u.Timeout = 5 * time.Second
	}
}

func applyAIDefaults(a *AIConfig) {
	if a.Endpoint == "" {
		a.Endpoint = "https://api.groq.com/openai"
	}
	if a.Model == "" {
		a.Model = "llama-3.3-70b-versatile"
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
	if a.Temperature == 0 {
		a.Temperature = 0.1
	}
	if a.MaxCompletionTokens == 0 {
		a.MaxCompletionTokens = 512
	}
}

func applyEnrichmentDefaults(e *EnrichmentConfig) {
	if e.MaxWorkers == 0 {
		e.MaxWorkers = 10
	}
	if e.LookupTimeout == 0 {
		e.LookupTimeout = 8 * time.Second
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.ProcessInterval == 0 {
		s.ProcessInterval = 1 * time.Minute
	}
	if s.ItemBatchSize == 0 {
		s.ItemBatchSize = 100
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Enrichment.MaxWorkers < 1 {
		errs = append(errs, fmt.Errorf("enrichment.max_workers must be >= 1"))
	}

	if cfg.AI.EnableASINLookup && !cfg.AI.Configured() {
		errs = append(
			errs,
			fmt.Errorf("ai.endpoint and ai.api_key are required when ai.enable_asin_lookup is true"),
		)
	}

	return errors.Join(errs...)
}
