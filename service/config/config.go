package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/guregu/null/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sm "github.com/jamshidfarook/Geenie-Risk-Engine/service/models"
)

const (
	DefaultAddr = ":8080"
	DefaultPath = "geenie.yaml"
)

// Config holds all configuration for the application.
// Values come from an optional YAML file, environment variables win over it.
type Config struct {
	Env string `yaml:"env"`

	Server struct {
		Addr         string        `yaml:"addr"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		MaxBodyBytes int64         `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"log"`

	Analysis sm.AnalysisRequestSettings `yaml:"analysis"`
	Seed     *int64                     `yaml:"seed"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	// a missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Seed != nil {
		cfg.Analysis.Seed = null.IntFrom(*cfg.Seed)
	}
	cfg.Analysis = cfg.Analysis.WithDefaults()

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis defaults: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{Env: "development"}
	cfg.Server.Addr = DefaultAddr
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 60 * time.Second
	cfg.Server.MaxBodyBytes = 32 << 20
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

func applyEnv(cfg *Config) error {
	cfg.Env = getEnv("GEENIE_ENV", cfg.Env)
	cfg.Server.Addr = getEnv("GEENIE_ADDR", cfg.Server.Addr)
	cfg.Log.Level = getEnv("GEENIE_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("GEENIE_LOG_FORMAT", cfg.Log.Format)

	var err error
	if cfg.Analysis.NumSimulations, err = getEnvInt("GEENIE_NUM_SIMULATIONS", cfg.Analysis.NumSimulations); err != nil {
		return err
	}
	if cfg.Analysis.RollingWindow, err = getEnvInt("GEENIE_ROLLING_WINDOW", cfg.Analysis.RollingWindow); err != nil {
		return err
	}

	if v := os.Getenv("GEENIE_STRESS_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GEENIE_STRESS_THRESHOLD: %w", err)
		}
		cfg.Analysis.StressThreshold = f
	}

	if v := os.Getenv("GEENIE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GEENIE_SEED: %w", err)
		}
		cfg.Seed = &seed
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}
