package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server" json:"server"`

	// Remote catalog provider configuration
	TMDB TMDBConfig `yaml:"tmdb" json:"tmdb"`

	// Catalog cache configuration
	Catalog CatalogConfig `yaml:"catalog" json:"catalog"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string        `yaml:"host" json:"host" env:"MOVIECHAIN_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" json:"port" env:"MOVIECHAIN_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout" env:"MOVIECHAIN_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout" env:"MOVIECHAIN_WRITE_TIMEOUT" default:"30s"`
}

// TMDBConfig holds the remote provider boundary configuration
type TMDBConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url" env:"TMDB_BASE_URL" default:"https://api.themoviedb.org/3"`
	APIKey         string        `yaml:"api_key" json:"api_key" env:"TMDB_API_KEY"`
	Language       string        `yaml:"language" json:"language" env:"TMDB_LANGUAGE" default:"en-US"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout" env:"TMDB_REQUEST_TIMEOUT" default:"30s"`
	// Minimum spacing between requests, to respect provider rate limits.
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay" env:"TMDB_REQUEST_DELAY" default:"200ms"`
	// Offline substitutes injected fixture data for all network calls.
	Offline bool `yaml:"offline" json:"offline" env:"TMDB_OFFLINE" default:"false"`
}

// CatalogConfig controls the popular-movie cache and its refresh behavior
type CatalogConfig struct {
	Size         int           `yaml:"size" json:"size" env:"CATALOG_SIZE" default:"5000"`
	CacheDir     string        `yaml:"cache_dir" json:"cache_dir" env:"CATALOG_CACHE_DIR" default:"cache"`
	CacheTTL     time.Duration `yaml:"cache_ttl" json:"cache_ttl" env:"CATALOG_CACHE_TTL" default:"24h"`
	Workers      int           `yaml:"workers" json:"workers" env:"CATALOG_WORKERS" default:"5"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" env:"CATALOG_BATCH_SIZE" default:"100"`
	PageSize     int           `yaml:"page_size" json:"page_size" env:"CATALOG_PAGE_SIZE" default:"20"`
	MaxRetries   int           `yaml:"max_retries" json:"max_retries" env:"CATALOG_MAX_RETRIES" default:"3"`
	RetryDelay   time.Duration `yaml:"retry_delay" json:"retry_delay" env:"CATALOG_RETRY_DELAY" default:"1s"`
	BatchTimeout time.Duration `yaml:"batch_timeout" json:"batch_timeout" env:"CATALOG_BATCH_TIMEOUT" default:"5m"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" env:"MOVIECHAIN_LOG_LEVEL" default:"info"`
}

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		TMDB: TMDBConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			Language:       "en-US",
			RequestTimeout: 30 * time.Second,
			RequestDelay:   200 * time.Millisecond,
		},
		Catalog: CatalogConfig{
			Size:         5000,
			CacheDir:     "cache",
			CacheTTL:     24 * time.Hour,
			Workers:      5,
			BatchSize:    100,
			PageSize:     20,
			MaxRetries:   3,
			RetryDelay:   time.Second,
			BatchTimeout: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional file, then applies
// environment overrides. An empty path skips the file stage.
func Load(configPath string) error {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
	return nil
}

// Get returns the active configuration. Returns defaults when Load has
// not been called (tests, tooling).
func Get() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// Set replaces the active configuration. Used by tests and the bootstrap
// path when a config is constructed directly.
func Set(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ValidationError{Field: "server.port", Message: "must be between 1 and 65535"}
	}
	if c.Catalog.Size < 1 {
		return &ValidationError{Field: "catalog.size", Message: "must be at least 1"}
	}
	if c.Catalog.Workers < 1 || c.Catalog.Workers > 64 {
		return &ValidationError{Field: "catalog.workers", Message: "must be between 1 and 64"}
	}
	if c.Catalog.BatchSize < c.Catalog.PageSize {
		return &ValidationError{Field: "catalog.batch_size", Message: "must be at least one page"}
	}
	if c.Catalog.MaxRetries < 1 || c.Catalog.MaxRetries > 10 {
		return &ValidationError{Field: "catalog.max_retries", Message: "must be between 1 and 10"}
	}
	if !c.TMDB.Offline && c.TMDB.APIKey == "" {
		return &ValidationError{Field: "tmdb.api_key", Message: "required unless offline mode is enabled"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error in field '" + e.Field + "': " + e.Message
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file format: %s", filepath.Ext(path))
	}
}

func loadFromEnv(cfg *Config) error {
	return loadStructFromEnv(reflect.ValueOf(cfg).Elem())
}

func loadStructFromEnv(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := loadStructFromEnv(field); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}

		envValue := os.Getenv(envTag)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind: %s", field.Kind())
	}
	return nil
}
