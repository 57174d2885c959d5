// Package config loads settings for the dataset builder from defaults, .env
// files, an optional YAML file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"match-analyzer/internal/riot"
)

// EnvPaths are the .env candidates tried in order; the first one found wins
var EnvPaths = []string{".env", "../.env", "../../.env"}

// Config holds every tunable of a build
type Config struct {
	RiotAPIKey  string `yaml:"riot_api_key" env:"RIOT_API_KEY"`
	RegionalURL string `yaml:"regional_url" env:"RIOT_REGIONAL_URL"`
	PlatformURL string `yaml:"platform_url" env:"RIOT_PLATFORM_URL"`

	Queue     int           `yaml:"queue" env:"MATCH_QUEUE"`
	MatchType string        `yaml:"match_type" env:"MATCH_TYPE"`
	Minute    int           `yaml:"minute" env:"FEATURE_MINUTE"`
	Interval  time.Duration `yaml:"interval" env:"REQUEST_INTERVAL"`

	// DatasetPath is a CSV path, a .db/.sqlite file, or a postgres:// or
	// libsql:// URL
	DatasetPath    string `yaml:"dataset" env:"DATASET_PATH"`
	TursoAuthToken string `yaml:"turso_auth_token" env:"TURSO_AUTH_TOKEN"`

	ArchiveDir string `yaml:"archive_dir" env:"BLOB_STORAGE_PATH"`
	// ColdDir holds compressed archives; defaults to ArchiveDir/cold
	ColdDir string `yaml:"cold_dir" env:"COLD_STORAGE_PATH"`

	DiscordWebhookURL string `yaml:"discord_webhook_url" env:"DISCORD_WEBHOOK_URL"`
	MetricsAddr       string `yaml:"metrics_addr" env:"METRICS_ADDR"`
}

// Default returns the built-in settings: ranked solo queue, minute 10, one
// request per second
func Default() Config {
	return Config{
		RegionalURL: riot.DefaultRegionalURL,
		PlatformURL: riot.DefaultPlatformURL,
		Queue:       420,
		MatchType:   "ranked",
		Minute:      10,
		Interval:    time.Second,
		DatasetPath: "early_features.csv",
	}
}

// LoadDotEnv loads the first .env file found in EnvPaths and returns its path,
// or "" when none exists. Variables already set in the environment win.
func LoadDotEnv() string {
	for _, path := range EnvPaths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then environment overrides. .env files must already
// be loaded; see LoadDotEnv.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&c); err != nil {
		return Config{}, err
	}
	if c.RiotAPIKey == "" {
		// Older .env files use the hyphenated name
		c.RiotAPIKey = os.Getenv("RIOT-DEV-KEY")
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseEnv applies environment overrides to target. Unset variables leave
// the field as it is.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate rejects settings no build can run with
func (c Config) Validate() error {
	if c.Minute < 1 {
		return fmt.Errorf("minute must be at least 1, got %d", c.Minute)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	if c.DatasetPath == "" {
		return errors.New("dataset path is empty")
	}
	return nil
}
