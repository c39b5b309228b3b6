package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nkzzz-xD/EasyPastPapers/internal/apperrors"
	"github.com/nkzzz-xD/EasyPastPapers/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// DefaultBaseURL is the archive site scraped when no base_url is configured.
	DefaultBaseURL = "https://papers.gceguide.cc"
	// DefaultConnectTimeout is in seconds.
	DefaultConnectTimeout = 5.0
	// DefaultReadTimeout is in seconds.
	DefaultReadTimeout = 15.0
	// DefaultMaxPageCache is the number of listing pages kept in memory.
	DefaultMaxPageCache = 20
	// DefaultMaxRetries applies to listing page fetches only.
	DefaultMaxRetries = 2
	// MaxConfigAge is how long the discovered subject directory is trusted.
	MaxConfigAge = 28 * 24 * time.Hour

	// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

	// EnvPrefix namespaces the environment-only settings (EASYPAPERS_LOG_LEVEL, ...).
	EnvPrefix = "EASYPAPERS"
)

// Keys persisted in the on-disk JSON file. Nothing else is ever written.
var persistedKeys = []string{
	"base_url",
	"download_folder",
	"connect_timeout",
	"read_timeout",
	"max_page_cache",
	"exam_page_links",
	"subjects",
	"last_updated",
}

type Config struct {
	BaseURL        string                       `mapstructure:"base_url"`
	DownloadFolder string                       `mapstructure:"download_folder"`
	ConnectTimeout float64                      `mapstructure:"connect_timeout"` // seconds
	ReadTimeout    float64                      `mapstructure:"read_timeout"`    // seconds
	MaxPageCache   int                          `mapstructure:"max_page_cache"`
	ExamPageLinks  map[string]string            `mapstructure:"exam_page_links"`
	Subjects       map[string]map[string]string `mapstructure:"subjects"`
	LastUpdated    float64                      `mapstructure:"last_updated"` // unix seconds

	// Environment only
	LogLevel   string `mapstructure:"log_level"`
	UserAgent  string `mapstructure:"user_agent"`
	SentryDSN  string `mapstructure:"sentry_dsn"`
	MaxRetries int    `mapstructure:"max_retries"`

	// MetricsAddr enables the /metrics endpoint while the shell runs, e.g. "127.0.0.1:9090"
	MetricsAddr string `mapstructure:"metrics_addr"`

	fs   afero.Fs
	path string
}

// DefaultPath returns <user config dir>/easypapers/config.json
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "easypapers", "config.json"), nil
}

// DefaultDownloadFolder returns ~/Past_Papers, or ./Past_Papers when the home directory is unknown
func DefaultDownloadFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Past_Papers"
	}
	return filepath.Join(home, "Past_Papers")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("download_folder", DefaultDownloadFolder())
	v.SetDefault("connect_timeout", DefaultConnectTimeout)
	v.SetDefault("read_timeout", DefaultReadTimeout)
	v.SetDefault("max_page_cache", DefaultMaxPageCache)
	v.SetDefault("last_updated", 0)
	v.SetDefault("log_level", "warn")
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("max_retries", DefaultMaxRetries)
}

// Load reads the JSON config at path from fs. A missing file is not an error:
// defaults are returned and NeedsRefresh reports true.
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	// Environment variable support for settings that never reach the file
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("log_level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL")
	_ = v.BindEnv("user_agent")
	_ = v.BindEnv("sentry_dsn")
	_ = v.BindEnv("max_retries")
	_ = v.BindEnv("metrics_addr")

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	cfg.fs = fs
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks the values the core relies on
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url must not be empty"))
	}
	if c.ConnectTimeout <= 0 {
		errs = append(errs, fmt.Errorf("connect_timeout must be positive, got %v", c.ConnectTimeout))
	}
	if c.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read_timeout must be positive, got %v", c.ReadTimeout))
	}
	if c.MaxPageCache <= 0 {
		errs = append(errs, fmt.Errorf("max_page_cache must be positive, got %d", c.MaxPageCache))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries))
	}
	return errors.Join(errs...)
}

// Save writes the persisted keys back to the file the config was loaded from.
// Environment-only settings are never written. Failures are *apperrors.ErrConfigSave.
func (c *Config) Save() error {
	fs := c.fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("json")
	values := map[string]any{
		"base_url":        c.BaseURL,
		"download_folder": c.DownloadFolder,
		"connect_timeout": c.ConnectTimeout,
		"read_timeout":    c.ReadTimeout,
		"max_page_cache":  c.MaxPageCache,
		"exam_page_links": c.ExamPageLinks,
		"subjects":        c.Subjects,
		"last_updated":    c.LastUpdated,
	}
	for _, key := range persistedKeys {
		v.Set(key, values[key])
	}

	if err := fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return &apperrors.ErrConfigSave{Path: c.path, Err: err}
	}
	if err := v.WriteConfigAs(c.path); err != nil {
		return &apperrors.ErrConfigSave{Path: c.path, Err: err}
	}

	logger.Debug().Str("path", c.path).Msg("Configuration saved")
	return nil
}

// Path returns the file the config is loaded from and saved to
func (c *Config) Path() string {
	return c.path
}

// ConnectTimeoutDuration converts the connect timeout to a time.Duration
func (c *Config) ConnectTimeoutDuration() time.Duration {
	return secondsToDuration(c.ConnectTimeout)
}

// ReadTimeoutDuration converts the read timeout to a time.Duration
func (c *Config) ReadTimeoutDuration() time.Duration {
	return secondsToDuration(c.ReadTimeout)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Directory returns the subject directory discovered from the archive
func (c *Config) Directory() models.SubjectDirectory {
	return models.SubjectDirectory{
		ExamPageLinks: c.ExamPageLinks,
		Subjects:      c.Subjects,
	}
}

// SetDirectory replaces the subject directory and stamps the update time
func (c *Config) SetDirectory(dir models.SubjectDirectory, now time.Time) {
	c.ExamPageLinks = dir.ExamPageLinks
	c.Subjects = dir.Subjects
	c.LastUpdated = float64(now.UnixNano()) / float64(time.Second)
}

// NeedsRefresh reports whether the subject directory has never been discovered
func (c *Config) NeedsRefresh() bool {
	return len(c.ExamPageLinks) == 0 || c.Directory().IsEmpty()
}

// IsStale reports whether the subject directory is older than MaxConfigAge
func (c *Config) IsStale(now time.Time) bool {
	updated := time.Unix(0, int64(c.LastUpdated*float64(time.Second)))
	return now.Sub(updated) > MaxConfigAge
}
