// Package config loads cc-courses settings from defaults, a TOML file and
// CC_COURSES_* environment variables, in that order. Command-line flags are
// applied on top by the cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pfrederiksen/cc-courses/internal/frame"
	"github.com/pfrederiksen/cc-courses/internal/logger"
	"github.com/pfrederiksen/cc-courses/internal/scraper"
	"github.com/pfrederiksen/cc-courses/internal/storage"
	"github.com/pfrederiksen/cc-courses/internal/tokenstore"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CC_COURSES_"

// Duration is a time.Duration written as "5m" in TOML.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config holds every setting of the server and CLI.
type Config struct {
	ListenAddr    string   `toml:"listen_addr"`
	ScheduleURL   string   `toml:"schedule_url"`
	BaseURL       string   `toml:"base_url"`
	TableSelector string   `toml:"table_selector"`
	AllowedOrigin string   `toml:"allowed_origin"`
	CacheTTL      Duration `toml:"cache_ttl"`
	FetchTimeout  Duration `toml:"fetch_timeout"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	DataDir       string `toml:"data_dir"`
	TokenStore    string `toml:"token_store"`
	EncryptionKey string `toml:"encryption_key"`
	GistID        string `toml:"gist_id"`
	GitHubToken   string `toml:"github_token"`

	HubURL       string `toml:"hub_url"`
	SkipKeyCheck bool   `toml:"skip_key_check"`
	AppURL       string `toml:"app_url"`

	TelegramBotToken string `toml:"telegram_bot_token"`
	TelegramChatID   string `toml:"telegram_chat_id"`
	TelegramAPIURL   string `toml:"telegram_api_url"` // empty means api.telegram.org
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ListenAddr:    ":3000",
		ScheduleURL:   scraper.ScheduleURL,
		BaseURL:       scraper.CatalogBaseURL,
		TableSelector: scraper.CoursesSelector,
		AllowedOrigin: "http://localhost:3000",
		CacheTTL:      Duration(scraper.DefaultCacheTTL),
		FetchTimeout:  Duration(scraper.Timeout),
		LogLevel:      "info",
		LogFormat:     "json",
		DataDir:       storage.DefaultDataDir,
		TokenStore:    tokenstore.BackendMemory,
		HubURL:        frame.DefaultHubURL,
		AppURL:        "http://localhost:3000",
	}
}

// DefaultPath is ~/.config/cc-courses/config.toml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cc-courses", "config.toml")
}

// Load layers the file at path and the environment over the defaults. An
// empty path reads DefaultPath if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Save writes the config as TOML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

type envBinding struct {
	key string
	set func(c *Config, v string) error
}

func stringVar(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}

func durationVar(field func(*Config) *Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		return field(c).UnmarshalText([]byte(v))
	}
}

var envBindings = []envBinding{
	{"listen_addr", stringVar(func(c *Config) *string { return &c.ListenAddr })},
	{"schedule_url", stringVar(func(c *Config) *string { return &c.ScheduleURL })},
	{"base_url", stringVar(func(c *Config) *string { return &c.BaseURL })},
	{"table_selector", stringVar(func(c *Config) *string { return &c.TableSelector })},
	{"allowed_origin", stringVar(func(c *Config) *string { return &c.AllowedOrigin })},
	{"cache_ttl", durationVar(func(c *Config) *Duration { return &c.CacheTTL })},
	{"fetch_timeout", durationVar(func(c *Config) *Duration { return &c.FetchTimeout })},
	{"log_level", stringVar(func(c *Config) *string { return &c.LogLevel })},
	{"log_format", stringVar(func(c *Config) *string { return &c.LogFormat })},
	{"data_dir", stringVar(func(c *Config) *string { return &c.DataDir })},
	{"token_store", stringVar(func(c *Config) *string { return &c.TokenStore })},
	{"encryption_key", stringVar(func(c *Config) *string { return &c.EncryptionKey })},
	{"gist_id", stringVar(func(c *Config) *string { return &c.GistID })},
	{"github_token", stringVar(func(c *Config) *string { return &c.GitHubToken })},
	{"hub_url", stringVar(func(c *Config) *string { return &c.HubURL })},
	{"skip_key_check", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.SkipKeyCheck = b
		return nil
	}},
	{"app_url", stringVar(func(c *Config) *string { return &c.AppURL })},
	{"telegram_bot_token", stringVar(func(c *Config) *string { return &c.TelegramBotToken })},
	{"telegram_chat_id", stringVar(func(c *Config) *string { return &c.TelegramChatID })},
	{"telegram_api_url", stringVar(func(c *Config) *string { return &c.TelegramAPIURL })},
}

// EnvName returns the environment variable for a config key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvName(b.key))
		if !ok {
			continue
		}
		if err := b.set(c, v); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvName(b.key), err)
		}
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case string(logger.FormatJSON), string(logger.FormatText):
	default:
		return fmt.Errorf("log_format: must be json or text, got %q", c.LogFormat)
	}
	switch strings.ToLower(c.TokenStore) {
	case "", tokenstore.BackendMemory, tokenstore.BackendFile, tokenstore.BackendSQLite, tokenstore.BackendGist:
	default:
		return fmt.Errorf("token_store: unknown backend %q", c.TokenStore)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl: must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout: must be positive")
	}
	if c.ScheduleURL == "" {
		return fmt.Errorf("schedule_url: required")
	}
	return nil
}

// Logger builds the logger the settings describe.
func (c *Config) Logger() *logger.Logger {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	return logger.New(level, logger.Format(c.LogFormat), os.Stderr)
}

// Scraper builds the table fetcher the settings describe.
func (c *Config) Scraper() *scraper.Scraper {
	return scraper.New(
		scraper.WithURL(c.ScheduleURL),
		scraper.WithSelector(c.TableSelector),
		scraper.WithTimeout(time.Duration(c.FetchTimeout)),
	)
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	for _, s := range []*string{&out.EncryptionKey, &out.GitHubToken, &out.TelegramBotToken} {
		if *s != "" {
			*s = "********"
		}
	}
	return &out
}
