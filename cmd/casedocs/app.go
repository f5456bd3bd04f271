package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"casedocs/internal/config"
	"casedocs/internal/metrics"
	"casedocs/internal/notify"
	"casedocs/internal/scenario"
	"casedocs/internal/transport"
)

//go:embed court_scenarios.csv
var sampleScenarios []byte

// app holds what the matching and sending commands share: the validated
// config, the scenario table and the notifier.
type app struct {
	cfg      *config.Config
	table    *scenario.Table
	notifier *notify.Notifier
	logFile  io.Closer
}

// openApp loads config, configures the global logger and loads the scenario
// table. With withTransport set it also builds the configured transport; a
// transport that cannot be built is logged and only disables sending.
func openApp(ctx context.Context, withTransport bool) (*app, error) {
	cfg, err := loadConfig(resolveConfigPath())
	if err != nil {
		return nil, err
	}

	l, closer, err := newLogger(cfg.General, os.Stderr)
	if err != nil {
		return nil, err
	}
	logger = l
	a := &app{cfg: cfg, logFile: closer}

	a.table, err = scenario.Load(ctx, cfg.Scenarios.Path, scenario.LoadOptions{
		SQLiteTable: cfg.Scenarios.SQLiteTable,
		Logger:      logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	metrics.ScenariosLoaded.Set(float64(a.table.Len()))

	ncfg := notify.Config{From: transport.Sender(cfg.Transport), Logger: logger}
	if withTransport {
		tr, err := transport.New(cfg.Transport, logger)
		if err != nil {
			logger.Warn("messaging disabled", "transport", cfg.Transport.Provider, "err", err)
			ncfg.Unavailable = err
		} else {
			ncfg.Transport = tr
			logger.Debug("transport ready", "transport", tr.Name())
		}
	}
	a.notifier = notify.New(ncfg)
	return a, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// loadConfig reads the config file, falling back to defaults plus the
// environment when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger.Debug("config not found, using defaults", "path", path)
	if err := config.LoadDotEnv("."); err != nil {
		return nil, err
	}
	cfg = config.Defaults()
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Scenarios.Path = config.ExpandPath(cfg.Scenarios.Path)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newLogger builds a text logger at the configured level. With a log file
// set, records go to both stderr and the file.
func newLogger(g config.GeneralConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.LogLevel)); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	w := stderr
	var closer io.Closer
	if g.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(g.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(stderr, f)
		closer = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}
