package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/akycode08/xtrend-app/internal/api"
	"github.com/akycode08/xtrend-app/internal/cache"
	"github.com/akycode08/xtrend-app/internal/config"
	"github.com/akycode08/xtrend-app/internal/logging"
)

// env is what every backend-facing command needs.
type env struct {
	cfg     *config.Config
	client  *api.Client
	baseURL string
	origin  string
	logFile io.Closer
}

// setup loads config, starts file logging and builds the API client.
func setup() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLocal {
		cfg.API.Target = config.TargetLocal
	}
	if flagNoColor {
		color.NoColor = true
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logFile, err := logging.Init(level, config.LogPath())
	if err != nil {
		return nil, fmt.Errorf("starting logger: %w", err)
	}

	baseURL := cfg.BaseURL()
	logging.Logger.Info().Str("base_url", baseURL).Str("version", version).Msg("xtrend starting")

	client := api.New(baseURL,
		api.WithTimeout(cfg.TimeoutDuration()),
		api.WithRetryMaxElapsed(cfg.RetryMaxElapsedDuration()),
	)
	return &env{
		cfg:     cfg,
		client:  client,
		baseURL: baseURL,
		origin:  cfg.OriginURL(),
		logFile: logFile,
	}, nil
}

// openJournal opens the scan journal. A journal that cannot be opened is
// logged and skipped; scanning does not depend on it.
func (e *env) openJournal() *cache.Cache {
	db, err := cache.Open(config.CachePath())
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("scan journal unavailable")
		return nil
	}
	return db
}

func (e *env) Close() error {
	if e.logFile != nil {
		return e.logFile.Close()
	}
	return nil
}
