// Package config loads the explicit configuration of the dvd tool.
//
// Values are read, in increasing priority, from the defaults, a YAML file, a
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/etnz/dividends/date"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the file configuration.
const (
	EnvAPIKey      = "ALPHAVANTAGE_API_KEY"
	EnvEODHDAPIKey = "EODHD_API_KEY"
	EnvDataRoot    = "DVD_DATA_ROOT"
)

// Config is the complete configuration, passed explicitly to the cache and the remote client.
type Config struct {
	DataRoot          string             `yaml:"data_root" validate:"required"`
	Frequency         string             `yaml:"frequency" validate:"required"`
	RequestsPerMinute int                `yaml:"requests_per_minute" validate:"gte=1,lte=600"`
	Currency          string             `yaml:"currency" validate:"required,iso4217"`
	LogLevel          string             `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	Source            string             `yaml:"source" validate:"oneof=alphavantage eodhd"`
	AlphaVantage      AlphaVantageConfig `yaml:"alphavantage"`
	EODHD             EODHDConfig        `yaml:"eodhd"`
	Analysis          AnalysisConfig     `yaml:"analysis"`
	Assist            AssistConfig       `yaml:"assist"`
}

// AlphaVantageConfig configures the remote source.
type AlphaVantageConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// EODHDConfig configures the alternative remote source.
type EODHDConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// AnalysisConfig holds the default analysis parameters.
type AnalysisConfig struct {
	LookbackYears int     `yaml:"lookback_years" validate:"gte=1"`
	TargetYield   float64 `yaml:"target_yield" validate:"gt=0"`
}

// AssistConfig configures the AI commentary.
type AssistConfig struct {
	Model string `yaml:"model" validate:"required"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		DataRoot:          "data",
		Frequency:         date.Daily.String(),
		RequestsPerMinute: 5, // free tier quota
		Currency:          "USD",
		LogLevel:          "info",
		Source:            "alphavantage",
		AlphaVantage: AlphaVantageConfig{
			BaseURL: "https://www.alphavantage.co/query",
			Timeout: 30 * time.Second,
		},
		EODHD: EODHDConfig{
			BaseURL: "https://eodhd.com/api",
			Timeout: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			LookbackYears: 5,
			TargetYield:   5,
		},
		Assist: AssistConfig{
			Model: "gemini-2.5-flash",
		},
	}
}

// Load reads the configuration file at path on top of the defaults.
//
// A missing file is not an error. The .env file in the working directory, if
// any, is loaded into the environment before environment overrides are applied.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
			}
		}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := os.Getenv(EnvEODHDAPIKey); v != "" {
		c.EODHD.APIKey = v
	}
	if v := os.Getenv(EnvDataRoot); v != "" {
		c.DataRoot = v
	}
}

// Validate checks the struct constraints and the frequency name.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := date.ParsePeriod(c.Frequency); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Period returns the configured frequency.
func (c *Config) Period() date.Period {
	p, _ := date.ParsePeriod(c.Frequency) // checked by Validate
	return p
}
