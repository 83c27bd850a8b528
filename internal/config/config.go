package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all tripcost configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Oracle     OracleConfig     `toml:"oracle"`
	Categories CategoriesConfig `toml:"categories"`
	Columns    ColumnsConfig    `toml:"columns"`
	Rules      RulesConfig      `toml:"rules"`
}

// GeneralConfig holds run defaults.
type GeneralConfig struct {
	AdvanceBookingMonths int    `toml:"advance_booking_months"`
	OutputFormat         string `toml:"output_format"`
	Cache                bool   `toml:"cache"`
}

// OracleConfig selects and tunes the classification oracle.
type OracleConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model,omitempty"`
	APIKey         string `toml:"api_key,omitempty"`
	BaseURL        string `toml:"base_url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Concurrency    int    `toml:"concurrency"`
}

// CategoriesConfig holds the closed category set and the per-window lists.
type CategoriesConfig struct {
	Known          []string `toml:"known"`
	Fallback       string   `toml:"fallback"`
	Excluded       []string `toml:"excluded"`
	AdvanceBooking []string `toml:"advance_booking"`
	TrailingDay    []string `toml:"trailing_day"`
}

// ColumnsConfig pins CSV headers instead of inferring them.
type ColumnsConfig struct {
	Date        string `toml:"date,omitempty"`
	Description string `toml:"description,omitempty"`
	Amount      string `toml:"amount,omitempty"`
}

// RulesConfig points at an optional YAML rules file.
type RulesConfig struct {
	File string `toml:"file,omitempty"`
}

// Default category lists.
var (
	DefaultKnownCategories = []string{
		"Accommodation", "Airfare", "Transport", "Meals", "Groceries", "Tours",
		"Subscriptions", "Recurring Payments", "Credit Card Payments", "Other Credits", "Other",
	}
	DefaultExcluded       = []string{"Subscriptions", "Recurring Payments", "Credit Card Payments", "Other Credits"}
	DefaultAdvanceBooking = []string{"Airfare", "Accommodation"}
	DefaultTrailingDay    = []string{"Accommodation", "Other", "Transport"}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			AdvanceBookingMonths: 3,
			OutputFormat:         "xlsx",
			Cache:                true,
		},
		Oracle: OracleConfig{
			Provider:       ProviderOllama,
			TimeoutSeconds: 30,
			Concurrency:    4,
		},
		Categories: CategoriesConfig{
			Known:          append([]string(nil), DefaultKnownCategories...),
			Fallback:       "Other",
			Excluded:       append([]string(nil), DefaultExcluded...),
			AdvanceBooking: append([]string(nil), DefaultAdvanceBooking...),
			TrailingDay:    append([]string(nil), DefaultTrailingDay...),
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tripcost")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tripcost")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads .env and the config file, returning defaults if the file doesn't exist.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path on top of the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores defaults for fields a partial file left empty.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.General.OutputFormat == "" {
		c.General.OutputFormat = def.General.OutputFormat
	}
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = def.Oracle.Provider
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		c.Oracle.TimeoutSeconds = def.Oracle.TimeoutSeconds
	}
	if c.Oracle.Concurrency <= 0 {
		c.Oracle.Concurrency = def.Oracle.Concurrency
	}
	if len(c.Categories.Known) == 0 {
		c.Categories.Known = def.Categories.Known
	}
	if c.Categories.Fallback == "" {
		c.Categories.Fallback = def.Categories.Fallback
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetAPIKey returns the provider's API key from env vars or config, in that order.
func GetAPIKey(cfg Config) string {
	if p, ok := LookupProvider(cfg.Oracle.Provider); ok {
		for _, env := range p.KeyEnv {
			if key := strings.TrimSpace(os.Getenv(env)); key != "" {
				return key
			}
		}
	}
	return cfg.Oracle.APIKey
}

// GetBaseURL returns the provider endpoint from env vars, config, or the provider default.
func GetBaseURL(cfg Config) string {
	p, ok := LookupProvider(cfg.Oracle.Provider)
	if ok && p.URLEnv != "" {
		if u := strings.TrimSpace(os.Getenv(p.URLEnv)); u != "" {
			return u
		}
	}
	if cfg.Oracle.BaseURL != "" {
		return cfg.Oracle.BaseURL
	}
	if ok {
		return p.DefaultURL
	}
	return ""
}

// GetModel returns the configured model or the provider default.
func GetModel(cfg Config) string {
	if cfg.Oracle.Model != "" {
		return cfg.Oracle.Model
	}
	if p, ok := LookupProvider(cfg.Oracle.Provider); ok {
		return p.DefaultModel
	}
	return ""
}
