// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	rate := cfg.Register.DiscountRate
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Register      RegisterConfig      `yaml:"register"`
	Catalog       []CatalogProduct    `yaml:"catalog"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// RegisterConfig holds the cart and receipt settings
type RegisterConfig struct {
	CurrencySymbol string `yaml:"currency_symbol"`
	DiscountRate   string `yaml:"discount_rate"` // fraction, e.g. "0.20"
	PersistDraft   bool   `yaml:"persist_draft"` // keep the open cart across restarts
}

// CatalogProduct is a product saved into the catalog when the register opens.
type CatalogProduct struct {
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Price     string `yaml:"price"`
	Available *bool  `yaml:"available"` // default true
}

// IsAvailable reports whether the product is on sale.
func (p CatalogProduct) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console (default), text, json
}

// Defaults returns a configuration with every field set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			DatabasePath: "pos_register.db",
		},
		Register: RegisterConfig{
			CurrencySymbol: "₱",
			DiscountRate:   "0.20",
			PersistDraft:   true,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "console",
			},
		},
	}
}

// Load reads and parses the config file. Fields missing from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${POS_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	def := Defaults()
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("POS_PORT", def.Server.Port),
			AllowedOrigins: getEnvList("POS_ALLOWED_ORIGINS", def.Server.AllowedOrigins),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("POS_DB_PATH", def.Storage.DatabasePath),
		},
		Register: RegisterConfig{
			CurrencySymbol: getEnv("POS_CURRENCY_SYMBOL", def.Register.CurrencySymbol),
			DiscountRate:   getEnv("POS_DISCOUNT_RATE", def.Register.DiscountRate),
			PersistDraft:   getEnvBool("POS_PERSIST_DRAFT", def.Register.PersistDraft),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", def.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", def.Observability.Logging.Format),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks values that would otherwise fail deep inside the register.
func (c *Config) Validate() error {
	if _, err := money.ParseRate(c.Register.DiscountRate); err != nil {
		return fmt.Errorf("register.discount_rate: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	for i, p := range c.Catalog {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("catalog[%d].name is required", i)
		}
		price, err := money.ParseAmount(p.Price)
		if err != nil {
			return fmt.Errorf("catalog[%d].price: %w", i, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("catalog[%d].price: negative", i)
		}
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}

// getEnvList splits a comma-separated variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
