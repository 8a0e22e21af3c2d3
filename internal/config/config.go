// Package config loads service configuration from the environment, with an
// optional YAML file supplying defaults for values the environment leaves
// unset.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultProviderEndpoint = "http://localhost:8066"
	defaultProviderTimeout  = 30 * time.Second
	defaultThreshold        = 0.6
	defaultGalleryPath      = "face_gallery.json"
)

type Config struct {
	Provider ProviderConfig
	Matching MatchingConfig
	Storage  StorageConfig
	Web      WebConfig
}

type ProviderConfig struct {
	Endpoint string        // embedding service base URL
	APIKey   string        // sent as the api-key header
	Timeout  time.Duration // bound on provider calls
}

type MatchingConfig struct {
	// Threshold is the cosine similarity decision boundary. Scores strictly
	// above it count as a match.
	Threshold float64
}

type StorageConfig struct {
	GalleryPath string // JSON gallery file (file backend)
	DatabaseURL string // PostgreSQL URL; selects the pgvector backend when set
}

type WebConfig struct {
	Host string
	Port int
}

// fileConfig is the shape of the optional YAML file. Durations are strings
// ("30s", "2m") so the file reads like the environment variables do.
type fileConfig struct {
	Provider struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
		Timeout  string `yaml:"timeout"`
	} `yaml:"provider"`
	Matching struct {
		Threshold float64 `yaml:"threshold"`
	} `yaml:"matching"`
	Storage struct {
		GalleryPath string `yaml:"gallery_path"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"storage"`
	Web struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"web"`
}

// Load builds the configuration. Precedence: environment variables, then the
// YAML file named by FACEGATE_CONFIG (if any), then built-in defaults.
func Load() (*Config, error) {
	fromFile := fileConfig{}
	if path := os.Getenv("FACEGATE_CONFIG"); path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	fileTimeout := defaultProviderTimeout
	if fromFile.Provider.Timeout != "" {
		d, err := time.ParseDuration(fromFile.Provider.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid provider timeout %q in config file", fromFile.Provider.Timeout)
		}
		fileTimeout = d
	}

	cfg := &Config{
		Provider: ProviderConfig{
			Endpoint: envString("PROVIDER_ENDPOINT", pick(fromFile.Provider.Endpoint, defaultProviderEndpoint)),
			APIKey:   envString("PROVIDER_API_KEY", fromFile.Provider.APIKey),
			Timeout:  envDuration("PROVIDER_TIMEOUT", fileTimeout),
		},
		Matching: MatchingConfig{
			Threshold: envFloat("SIMILARITY_THRESHOLD", pickFloat(fromFile.Matching.Threshold, defaultThreshold)),
		},
		Storage: StorageConfig{
			GalleryPath: envString("GALLERY_PATH", pick(fromFile.Storage.GalleryPath, defaultGalleryPath)),
			DatabaseURL: envString("DATABASE_URL", fromFile.Storage.DatabaseURL),
		},
		Web: WebConfig{
			Host: envString("WEB_HOST", pick(fromFile.Web.Host, "0.0.0.0")),
			Port: envInt("WEB_PORT", pickInt(fromFile.Web.Port, 8080)),
		},
	}

	if cfg.Matching.Threshold <= -1 || cfg.Matching.Threshold >= 1 {
		return nil, fmt.Errorf("SIMILARITY_THRESHOLD must be inside (-1, 1), got %v", cfg.Matching.Threshold)
	}
	return cfg, nil
}

// envString reads an environment variable with a fallback.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// envDuration reads an environment variable and parses it as a duration
// (e.g. "30s", "2m").
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return defaultVal
}

func pick(val, fallback string) string {
	if val != "" {
		return val
	}
	return fallback
}

func pickFloat(val, fallback float64) float64 {
	if val != 0 {
		return val
	}
	return fallback
}

func pickInt(val, fallback int) int {
	if val != 0 {
		return val
	}
	return fallback
}
