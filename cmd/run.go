package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/app"
	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/share"
	"github.com/abhisek/triviaz/internal/trivia"
)

// deps are the long-lived collaborators shared by the commands.
type deps struct {
	log     *logrus.Logger
	source  trivia.Source
	closers []io.Closer
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		_ = d.closers[i].Close()
	}
}

// loggingConfig resolves the logger settings: flags, then env, then defaults.
func loggingConfig(cmd *cobra.Command) (logging.Config, error) {
	cfg := logging.ConfigFromEnv()
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Level = lvl
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Path = v
	}
	return cfg, nil
}

// triviaConfig resolves the API client settings: flags, then env, then defaults.
func triviaConfig(cmd *cobra.Command) trivia.Config {
	cfg := trivia.ConfigFromEnv()
	if v, _ := cmd.Flags().GetString("api-base"); v != "" {
		cfg.BaseURL = v
	}
	return cfg
}

// openLog opens the file logger configured by flags and env.
func openLog(cmd *cobra.Command) (*logrus.Logger, io.Closer, error) {
	logCfg, err := loggingConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return log, closer, nil
}

// buildDeps opens the log file and builds the trivia source.
func buildDeps(cmd *cobra.Command) (*deps, error) {
	log, closer, err := openLog(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{log: log, closers: []io.Closer{closer}}

	src, err := trivia.NewSource(triviaConfig(cmd), log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.source = src
	return d, nil
}

// runApp builds dependencies and launches the TUI. A non-nil initial
// configuration starts a quiz right away.
func runApp(cmd *cobra.Command, initial *quiz.Configuration) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{
		Source:        d.source,
		Logger:        d.log,
		InitialConfig: initial,
	}
	if noSplash, _ := cmd.Flags().GetBool("no-splash"); noSplash {
		opts.SkipSplash = true
	}

	clip := share.NewClipboardSharer()
	if clip.Available() {
		opts.Sharer = share.WithLogging(clip, d.log)
	} else {
		d.log.Warn("clipboard unavailable, sharing disabled")
	}

	d.log.WithField("version", version).Info("triviaz started")
	return app.Run(opts)
}
