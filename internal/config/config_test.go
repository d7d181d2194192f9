package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	require.NoError(t, err)

	assert.Equal(t, TargetAuto, cfg.API.Target)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.LocalURL)
	assert.Equal(t, "https://xtrend-app.onrender.com/api", cfg.API.DeployedURL)
	assert.Equal(t, 15*time.Second, cfg.PollDuration())
	assert.Equal(t, 24, cfg.GetRescanHours())
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.NoError(t, validate(cfg))
}

func TestBaseURL(t *testing.T) {
	cfg := &Config{API: APIConfig{
		Target:      TargetAuto,
		LocalURL:    "http://localhost:8000/api/",
		DeployedURL: "https://example.com/api",
	}}

	t.Setenv("XTREND_API_URL", "")
	t.Setenv("XTREND_ENV", "")
	assert.Equal(t, "https://example.com/api", cfg.BaseURL())

	t.Setenv("XTREND_ENV", "development")
	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL())

	cfg.API.Target = TargetDeployed
	assert.Equal(t, "https://example.com/api", cfg.BaseURL(), "explicit target beats XTREND_ENV")

	cfg.API.Target = TargetLocal
	t.Setenv("XTREND_ENV", "")
	assert.Equal(t, "http://localhost:8000/api", cfg.BaseURL())
	assert.Equal(t, "http://localhost:8000", cfg.OriginURL())

	t.Setenv("XTREND_API_URL", "http://10.0.0.5:9000/api/")
	assert.Equal(t, "http://10.0.0.5:9000/api", cfg.BaseURL())
}

func TestDurations(t *testing.T) {
	cfg := &Config{Timeout: "30s", RetryMaxElapsed: "2m", PollInterval: "5s"}
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 2*time.Minute, cfg.RetryMaxElapsedDuration())
	assert.Equal(t, 5*time.Second, cfg.PollDuration())

	cfg = &Config{Timeout: "soon", RetryMaxElapsed: "-1s", PollInterval: "10ms"}
	assert.Equal(t, 90*time.Second, cfg.TimeoutDuration())
	assert.Equal(t, 60*time.Second, cfg.RetryMaxElapsedDuration())
	assert.Equal(t, time.Second, cfg.PollDuration(), "poll interval has a one second floor")
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantDays int
	}{
		{"90d", 90},
		{"30d", 30},
		{"720h", 30},
		{"", 90},
		{"invalid", 90},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.input}
		assert.Equal(t, time.Duration(tt.wantDays)*24*time.Hour, cfg.RetentionDuration(), "RetentionDuration(%q)", tt.input)
	}
}

func TestGetRescanHours(t *testing.T) {
	assert.Equal(t, 24, (&Config{}).GetRescanHours())
	assert.Equal(t, 24, (&Config{RescanHours: -3}).GetRescanHours())
	assert.Equal(t, 6, (&Config{RescanHours: 6}).GetRescanHours())
}

func TestLoadFromFileKeepsDefaultsForOmittedKeys(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `api:
  target: local
poll_interval: 30s
history_limit: 5
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, TargetLocal, cfg.API.Target)
	assert.Equal(t, "http://localhost:8000/api", cfg.API.LocalURL)
	assert.Equal(t, 30*time.Second, cfg.PollDuration())
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, 24, cfg.GetRescanHours())
}

func TestLoadNonexistentWritesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, TargetAuto, cfg.API.Target)

	_, err = os.Stat(cfgPath)
	assert.NoError(t, err, "defaults should be written on first run")
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("api:\n  target: staging\n"), 0o644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{API: APIConfig{
			Target:      TargetAuto,
			LocalURL:    "http://localhost:8000/api",
			DeployedURL: "https://example.com/api",
		}}
	}

	assert.NoError(t, validate(base()))

	cfg := base()
	cfg.API.Target = "prod"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.API.DeployedURL = ""
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.API.LocalURL = "file:///etc/passwd"
	assert.Error(t, validate(cfg))

	cfg = base()
	cfg.HistoryLimit = -1
	assert.Error(t, validate(cfg))
}

func TestParseDays(t *testing.T) {
	d, err := ParseDays("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDays("2h30m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+30*time.Minute, d)

	_, err = ParseDays("d")
	assert.Error(t, err)
}
