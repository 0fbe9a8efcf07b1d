// Package config reads folio's settings from ~/.config/folio/config.json,
// FOLIO_* environment variables and .env files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL   = "http://localhost:5000/api"
	DefaultPageSize = 6
	dirName         = "folio"
	configFile      = "config.json"
)

// Config is the on-disk config. Empty fields fall back to defaults.
type Config struct {
	APIURL    string `json:"api_url,omitempty"`
	Store     string `json:"store,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
	PageSize  *int   `json:"page_size,omitempty"`
}

// Keys lists the settable keys in display order.
var Keys = []string{"api_url", "store", "log_level", "log_format", "page_size"}

// Dir returns ~/.config/folio, creating it if necessary.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	dir := filepath.Join(home, ".config", dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are
// ignored and variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the config file. A missing file yields an empty Config.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config file atomically (temp file + rename).
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, filepath.Join(dir, configFile))
}

// Set validates and assigns one key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "api_url":
		c.APIURL = strings.TrimRight(value, "/")
	case "store":
		c.Store = value
	case "log_level":
		if _, err := parseLevel(value); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(value)
	case "log_format":
		v := strings.ToLower(value)
		if v != "text" && v != "json" {
			return fmt.Errorf("log_format must be text or json, got %q", value)
		}
		c.LogFormat = v
	case "page_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("page_size must be a positive integer, got %q", value)
		}
		c.PageSize = &n
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns the stored value of key, or "" when unset.
func (c *Config) Get(key string) string {
	switch key {
	case "api_url":
		return c.APIURL
	case "store":
		return c.Store
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "page_size":
		if c.PageSize != nil {
			return strconv.Itoa(*c.PageSize)
		}
	}
	return ""
}

// IsKey reports whether key can be set.
func IsKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Settings is the effective configuration after env, file and defaults.
type Settings struct {
	APIURL    string
	Store     string
	LogLevel  slog.Level
	LogFormat string
	PageSize  int
}

// Resolve merges env > file > default. A nil cfg means no file.
func Resolve(cfg *Config) (*Settings, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	s := &Settings{
		APIURL:    firstNonEmpty(os.Getenv("FOLIO_API_URL"), cfg.APIURL, DefaultAPIURL),
		Store:     firstNonEmpty(os.Getenv("FOLIO_STORE"), cfg.Store),
		LogFormat: strings.ToLower(firstNonEmpty(os.Getenv("FOLIO_LOG_FORMAT"), cfg.LogFormat, "text")),
		PageSize:  DefaultPageSize,
	}
	s.APIURL = strings.TrimRight(s.APIURL, "/")

	if s.Store == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		s.Store = filepath.Join(dir, "folio.db")
	}

	level, err := parseLevel(firstNonEmpty(os.Getenv("FOLIO_LOG_LEVEL"), cfg.LogLevel, "warn"))
	if err != nil {
		return nil, err
	}
	s.LogLevel = level

	if cfg.PageSize != nil && *cfg.PageSize > 0 {
		s.PageSize = *cfg.PageSize
	}
	// Invalid env values fall through to the file or default.
	if v := os.Getenv("FOLIO_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.PageSize = n
		}
	}
	return s, nil
}

func parseLevel(v string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", v)
	}
	return l, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
