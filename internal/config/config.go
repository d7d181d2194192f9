package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	TargetAuto     = "auto"
	TargetLocal    = "local"
	TargetDeployed = "deployed"
)

type APIConfig struct {
	Target      string `yaml:"target"`
	LocalURL    string `yaml:"local_url"`
	DeployedURL string `yaml:"deployed_url"`
}

type Config struct {
	API             APIConfig `yaml:"api"`
	Timeout         string    `yaml:"timeout"`
	RetryMaxElapsed string    `yaml:"retry_max_elapsed"`
	PollInterval    string    `yaml:"poll_interval"`
	RescanHours     int       `yaml:"rescan_hours"`
	HistoryLimit    int       `yaml:"history_limit"`
	Retention       string    `yaml:"retention"`
	LogLevel        string    `yaml:"log_level"`
}

// BaseURL resolves the backend API root. XTREND_API_URL wins; otherwise the
// target decides between the local and deployed URLs.
func (c *Config) BaseURL() string {
	if v := os.Getenv("XTREND_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	target := c.API.Target
	if target == "" || target == TargetAuto {
		target = TargetDeployed
		switch strings.ToLower(os.Getenv("XTREND_ENV")) {
		case "local", "development", "dev":
			target = TargetLocal
		}
	}
	if target == TargetLocal {
		return strings.TrimRight(c.API.LocalURL, "/")
	}
	return strings.TrimRight(c.API.DeployedURL, "/")
}

// OriginURL is the backend root without the /api prefix; the image proxy
// path is absolute from there.
func (c *Config) OriginURL() string {
	return strings.TrimSuffix(c.BaseURL(), "/api")
}

func (c *Config) TimeoutDuration() time.Duration {
	return parseDurationOr(c.Timeout, 90*time.Second)
}

func (c *Config) RetryMaxElapsedDuration() time.Duration {
	return parseDurationOr(c.RetryMaxElapsed, 60*time.Second)
}

func (c *Config) PollDuration() time.Duration {
	d := parseDurationOr(c.PollInterval, 15*time.Second)
	if d < time.Second {
		return time.Second
	}
	return d
}

// GetRescanHours returns the default rescan interval, at least one hour.
func (c *Config) GetRescanHours() int {
	if c.RescanHours < 1 {
		return 24
	}
	return c.RescanHours
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 90 * 24 * time.Hour
	}
	d, err := ParseDays(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// ParseDays is time.ParseDuration plus an "Nd" day suffix.
func ParseDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "xtrend", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "xtrend", "journal.db")
}

func LogPath() string {
	return filepath.Join(xdg.StateHome, "xtrend", "xtrend.log")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), layered over the
// embedded defaults. A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: embedded defaults still apply
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Unmarshal onto the defaults so omitted keys keep their default value
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	switch cfg.API.Target {
	case "", TargetAuto, TargetLocal, TargetDeployed:
	default:
		return fmt.Errorf("api.target: unknown value %q (valid: auto, local, deployed)", cfg.API.Target)
	}

	for name, raw := range map[string]string{"api.local_url": cfg.API.LocalURL, "api.deployed_url": cfg.API.DeployedURL} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("%s: invalid url: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s: url scheme must be http or https, got %q", name, u.Scheme)
		}
	}

	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", cfg.HistoryLimit)
	}
	return nil
}
