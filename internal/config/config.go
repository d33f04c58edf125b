// Package config loads the client configuration from flags, environment
// variables, a .env file and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. POKEDEX_API_URL.
const EnvPrefix = "POKEDEX"

// Keys shared by flags, environment variables and the .env file.
const (
	KeyEnv       = "env"
	KeyLogLevel  = "log-level"
	KeyLogFile   = "log-file"
	KeyAPIURL    = "api-url"
	KeyToken     = "token"
	KeyTokenFile = "token-file"
	KeyPageSize  = "page-size"
	KeyTimeout   = "timeout"
	KeyRateLimit = "rate-limit"
	KeyRateBurst = "rate-burst"
	KeyEnvFile   = "env-file"
)

const (
	defaultAPIURL   = "https://hw4.cis1962.esinx.net/api"
	defaultPageSize = 10
	maxPageSize     = 50
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	Catalog CatalogConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // empty means stderr, except for the terminal UI
}

// APIConfig holds remote service configuration.
type APIConfig struct {
	BaseURL   string
	Token     string
	TokenFile string        // read when Token is unset, and watched by the UI
	Timeout   time.Duration // per request
	RateLimit float64       // requests per second per endpoint family; 0 disables
	RateBurst int
}

// CatalogConfig holds list view configuration.
type CatalogConfig struct {
	PageSize int
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyEnv, "", "Environment (development, staging, production)")
	fs.String(KeyLogLevel, "", "Log level (debug, info, warn, error)")
	fs.String(KeyLogFile, "", "Write logs to this file")
	fs.String(KeyAPIURL, "", "Base URL of the Pokemon service")
	fs.String(KeyToken, "", "Bearer token for the box endpoints")
	fs.String(KeyTokenFile, "", "File holding the bearer token")
	fs.Int(KeyPageSize, 0, "Pokemon per catalog page (1-50)")
	fs.Duration(KeyTimeout, 0, "Per-request timeout")
	fs.Float64(KeyRateLimit, 0, "Requests per second per endpoint family (0 disables)")
	fs.Int(KeyRateBurst, 0, "Rate limiter burst size")
	fs.String(KeyEnvFile, ".env", "Path to .env file")
}

// Load reads the configuration. fs may be nil, in which case only the
// environment, the default .env file and defaults apply. Only flags that
// were set on the command line override other sources.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(v.GetString(KeyEnvFile))

	cfg := &Config{
		App: AppConfig{
			Environment: v.GetString(KeyEnv),
		},
		Logger: LoggerConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
		},
		API: APIConfig{
			BaseURL:   strings.TrimRight(v.GetString(KeyAPIURL), "/"),
			Token:     v.GetString(KeyToken),
			TokenFile: v.GetString(KeyTokenFile),
			Timeout:   v.GetDuration(KeyTimeout),
			RateLimit: v.GetFloat64(KeyRateLimit),
			RateBurst: v.GetInt(KeyRateBurst),
		},
		Catalog: CatalogConfig{
			PageSize: v.GetInt(KeyPageSize),
		},
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyAPIURL, defaultAPIURL)
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyTokenFile, "")
	v.SetDefault(KeyPageSize, defaultPageSize)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRateLimit, 5.0)
	v.SetDefault(KeyRateBurst, 10)
	v.SetDefault(KeyEnvFile, ".env")
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("env is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api url: %q (must be an absolute http or https URL)", c.API.BaseURL)
	}

	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > maxPageSize {
		return fmt.Errorf("invalid page size: %d (must be between 1 and %d)", c.Catalog.PageSize, maxPageSize)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s (must be positive)", c.API.Timeout)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %g (must not be negative)", c.API.RateLimit)
	}
	if c.API.RateBurst < 1 {
		return fmt.Errorf("invalid rate burst: %d (must be at least 1)", c.API.RateBurst)
	}

	return nil
}

// DefaultLogFile is where the terminal UI logs when no file is configured.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pokedex.log")
	}
	return filepath.Join(dir, "pokedex", "pokedex.log")
}

func (c *Config) expandPaths() error {
	tokenFile, err := expandPath(c.API.TokenFile, "")
	if err != nil {
		return fmt.Errorf("invalid token file: %w", err)
	}
	c.API.TokenFile = tokenFile

	logFile, err := expandPath(c.Logger.File, "")
	if err != nil {
		return fmt.Errorf("invalid log file: %w", err)
	}
	c.Logger.File = logFile
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
