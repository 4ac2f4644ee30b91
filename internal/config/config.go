package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"contactapp/cterm/internal/api"
	"contactapp/cterm/internal/pagination"
	"contactapp/cterm/internal/storage"
)

const logFileName = "cterm.log"

type ClientConfig struct {
	APIURL   string        `json:"api_url"`
	Timeout  time.Duration `json:"timeout"`
	PageSize int           `json:"page_size"`
	DataDir  string        `json:"data_dir"`
	LogFile  string        `json:"log_file"`
	Debug    bool          `json:"debug"`
}

type ServerConfig struct {
	Addr  string `json:"addr"`
	Debug bool   `json:"debug"`
}

func LoadClientConfig() (*ClientConfig, error) {
	dataDir := os.Getenv("CTERM_DATA_DIR")
	if dataDir == "" {
		dir, err := storage.DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	config := &ClientConfig{
		APIURL:   getEnvOrDefault("CTERM_API_URL", api.DefaultBaseURL),
		Timeout:  parseDurationOrDefault("CTERM_TIMEOUT", api.DefaultTimeout),
		PageSize: parseIntOrDefault("CTERM_PAGE_SIZE", pagination.DefaultPageSize),
		DataDir:  dataDir,
		LogFile:  getEnvOrDefault("CTERM_LOG_FILE", filepath.Join(dataDir, logFileName)),
		Debug:    IsDebugEnabled(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		// Valid schemes
	default:
		return fmt.Errorf("invalid api url scheme: %q (must be 'http' or 'https')", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api url has no host: %s", c.APIURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	if !validPageSize(c.PageSize) {
		return fmt.Errorf("invalid page size: %d (must be one of %v)", c.PageSize, pagination.PageSizeOptions)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory must be set")
	}

	return nil
}

func (c *ClientConfig) ToAPIConfig() api.Config {
	return api.Config{
		BaseURL: c.APIURL,
		Timeout: c.Timeout,
	}
}

// ApplyPreferences lets a saved page size override the environment.
func (c *ClientConfig) ApplyPreferences(prefs *storage.Preferences) {
	if prefs != nil && validPageSize(prefs.PageSize) {
		c.PageSize = prefs.PageSize
	}
}

func LoadServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:  getEnvOrDefault("CTERMD_ADDR", ":8080"),
		Debug: IsDebugEnabled(),
	}
}

func GetDefaultConfig() *ClientConfig {
	return &ClientConfig{
		APIURL:   api.DefaultBaseURL,
		Timeout:  api.DefaultTimeout,
		PageSize: pagination.DefaultPageSize,
	}
}

func validPageSize(n int) bool {
	for _, option := range pagination.PageSizeOptions {
		if n == option {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func IsDebugEnabled() bool {
	return os.Getenv("CTERM_DEBUG") == "true" || os.Getenv("CTERM_DEBUG") == "1"
}
