// Package config loads service configuration from an optional YAML file
// with environment-variable overrides. Every knob has a sane default so
// the service runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the API server, worker and CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DNS      DNSConfig      `yaml:"dns"`
	Breach   BreachConfig   `yaml:"breach"`
	Data     DataConfig     `yaml:"data"`
	Batch    BatchConfig    `yaml:"batch"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	APIKey   string         `yaml:"api_key"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type DNSConfig struct {
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type BreachConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type DataConfig struct {
	FraudEmailsPath       string `yaml:"fraud_emails_path"`
	VerifiedCompaniesPath string `yaml:"verified_companies_path"`
}

type BatchConfig struct {
	MaxEmails int `yaml:"max_emails"`
	Workers   int `yaml:"workers"`
}

type ScoringConfig struct {
	// MaxFailedChecks is how many non-critical checks may fail before
	// the overall verdict flips to invalid.
	MaxFailedChecks int `yaml:"max_failed_checks"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		DNS: DNSConfig{
			Timeout:  5 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Breach: BreachConfig{
			URL:     "https://api.pwnedpasswords.com/range/",
			Timeout: 5 * time.Second,
		},
		Data: DataConfig{
			FraudEmailsPath:       "data/fraud_emails.csv",
			VerifiedCompaniesPath: "data/verified_companies.csv",
		},
		Batch: BatchConfig{
			MaxEmails: 50,
			Workers:   5,
		},
		Scoring: ScoringConfig{
			MaxFailedChecks: 1,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			cfg.Server.Addr = ":" + port
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("DB_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("API_SECRET_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("BREACH_API_URL"); v != "" {
		cfg.Breach.URL = v
	}
	if v := os.Getenv("FRAUD_DATA_PATH"); v != "" {
		cfg.Data.FraudEmailsPath = v
	}
	if v := os.Getenv("COMPANY_DATA_PATH"); v != "" {
		cfg.Data.VerifiedCompaniesPath = v
	}
}
