package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Env   string `yaml:"env" validate:"omitempty,oneof=development production"`
		Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"gte=0"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		WordsFile          string `yaml:"words_file"`
		CacheTTL           string `yaml:"cache_ttl"`
		Distractors        int    `yaml:"distractors" validate:"gte=0"`
		MaxAttemptsPerWord int    `yaml:"max_attempts_per_word" validate:"gte=0"`
		DailyLimit         int    `yaml:"daily_limit" validate:"gte=0"`
		StoreLockTimeout   string `yaml:"store_lock_timeout"`
		DashboardDays      int    `yaml:"dashboard_days" validate:"gte=0"`
		Timezone           string `yaml:"timezone"`
	} `yaml:"quiz"`
}

var validate = validator.New()

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Location resolves the configured timezone, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Quiz.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Quiz.Timezone)
}

// DashboardDays is the default dashboard window length.
func (c Config) DashboardDays() int {
	if c.Quiz.DashboardDays > 0 {
		return c.Quiz.DashboardDays
	}
	return 30
}
