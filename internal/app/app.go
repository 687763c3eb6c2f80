package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rescueworks/rescuetui/internal/config"
	"github.com/rescueworks/rescuetui/internal/logging"
	"github.com/rescueworks/rescuetui/internal/prefs"
	"github.com/rescueworks/rescuetui/internal/rescue"
	"github.com/rescueworks/rescuetui/internal/session"
	"github.com/rescueworks/rescuetui/internal/ui"
)

// Options configure the rescuetui application.
type Options struct {
	ConfigPath string // empty uses ~/.config/rescuetui/config.toml
	PrefsPath  string // empty uses ~/.config/rescuetui/prefs.toml
	APIURL     string // overrides api_url from the config file
	LogLevel   string // overrides log_level from the config file
}

// env is everything a command needs once startup has succeeded.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	closer  io.Closer
	session *session.Store
	client  *rescue.Client
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func setup(opts Options) (*env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.LogLevel != "" {
		if err := cfg.SetLogLevel(opts.LogLevel); err != nil {
			return nil, err
		}
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	// The session lives in memory only; every run starts signed out.
	store := &session.Store{}
	client, err := rescue.NewClient(cfg.APIURL,
		rescue.WithTokenSource(store),
		rescue.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	logger.Info("starting", "api_url", cfg.APIURL, "timeout", cfg.RequestTimeout.String())
	return &env{cfg: cfg, log: logger, closer: closer, session: store, client: client}, nil
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, e.Close())
	}()

	userPrefs := prefs.Load(opts.PrefsPath)

	err = ui.Run(ui.Options{
		Context:   ctx,
		Gateway:   e.client,
		Session:   e.session,
		Logger:    e.log,
		APIURL:    e.cfg.APIURL,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
	if err != nil {
		e.log.Error("ui exited", "error", err)
		return err
	}
	e.log.Info("exiting")
	return nil
}
