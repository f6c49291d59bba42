package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
)

// Session store kinds.
const (
	SessionStoreFile   = "file"
	SessionStoreValkey = "valkey"
	SessionStoreMemory = "memory"
)

// Config holds the ocrdesk client and stub server configuration.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Valkey     ValkeyConfig     `yaml:"valkey"`
	Collection CollectionConfig `yaml:"collection"`
	Stub       StubConfig       `yaml:"stub"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// APIConfig holds OCR service client settings.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"` // 0 = no client timeout
	UserAgent  string `yaml:"user_agent"`
}

// SessionConfig selects where the session credential is persisted.
type SessionConfig struct {
	Store    string `yaml:"store"` // file, valkey, memory (default: file)
	FilePath string `yaml:"file_path"`
	Key      string `yaml:"key"`
	TTLHours int    `yaml:"ttl_hours"` // 0 = no expiry
}

// ValkeyConfig holds Valkey/Redis connection settings for the session store.
type ValkeyConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CollectionConfig holds document listing settings.
type CollectionConfig struct {
	DefaultPageSize  int `yaml:"default_page_size"`
	SearchDebounceMs int `yaml:"search_debounce_ms"` // 0 = no debounce
}

// StubConfig holds the stub OCR server settings.
type StubConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	OCRIntervalMs   int `yaml:"ocr_interval_ms"`
	MaxFileMB       int `yaml:"max_file_mb"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, substitutes ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.API.UserAgent == "" {
		c.API.UserAgent = "ocrdesk"
	}
	if c.Session.Store == "" {
		c.Session.Store = SessionStoreFile
	}
	if c.Session.Key == "" {
		c.Session.Key = "ocrdesk:session:token"
	}
	if c.Valkey.ReadinessTimeout <= 0 {
		c.Valkey.ReadinessTimeout = 10
	}
	if c.Collection.DefaultPageSize <= 0 {
		c.Collection.DefaultPageSize = listing.DefaultPageSize
	}
	if c.Stub.Port <= 0 {
		c.Stub.Port = 5000
	}
	if c.Stub.ReadTimeoutSec <= 0 {
		c.Stub.ReadTimeoutSec = 30
	}
	if c.Stub.WriteTimeoutSec <= 0 {
		c.Stub.WriteTimeoutSec = 30
	}
	if c.Stub.ShutdownSec <= 0 {
		c.Stub.ShutdownSec = 10
	}
	if c.Stub.OCRIntervalMs <= 0 {
		c.Stub.OCRIntervalMs = 2000
	}
	if c.Stub.MaxFileMB <= 0 {
		c.Stub.MaxFileMB = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSec < 0 {
		return fmt.Errorf("api.timeout_sec must be >= 0, got %d", c.API.TimeoutSec)
	}
	switch c.Session.Store {
	case SessionStoreFile, SessionStoreMemory:
		// ok
	case SessionStoreValkey:
		if len(c.Valkey.Addrs) == 0 {
			return fmt.Errorf("valkey.addrs is required when session.store is %q", SessionStoreValkey)
		}
	default:
		return fmt.Errorf("session.store must be \"file\", \"valkey\" or \"memory\", got %q", c.Session.Store)
	}
	if !listing.ValidPageSize(c.Collection.DefaultPageSize) {
		return fmt.Errorf("collection.default_page_size must be one of %v, got %d",
			listing.PageSizes, c.Collection.DefaultPageSize)
	}
	if c.Collection.SearchDebounceMs < 0 {
		return fmt.Errorf("collection.search_debounce_ms must be >= 0, got %d", c.Collection.SearchDebounceMs)
	}
	if c.Stub.Port > 65535 {
		return fmt.Errorf("stub.port must be between 1 and 65535, got %d", c.Stub.Port)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
