package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/cardshift/internal/board"
	"github.com/jask/cardshift/internal/config"
	"github.com/jask/cardshift/internal/database"
	"github.com/jask/cardshift/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "cardshift:", err)
		os.Exit(1)
	}
}

// env is what every subcommand starts from: loaded config, a logger and an
// open, migrated database.
type env struct {
	cfg   config.Config
	log   zerolog.Logger
	db    *sql.DB
	store board.Store

	closers []io.Closer
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "cardshift",
		Short:         "A terminal kanban board you rearrange by dragging cards",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default $CARDSHIFT_CONFIG or ~/.config/cardshift/config.toml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(&flags),
		newSeedCommand(&flags),
		newAddCommand(&flags),
		newShowCommand(&flags),
		newHistoryCommand(&flags),
		newResetCommand(&flags),
		newConfigCommand(&flags),
	)
	return root
}

// loadConfig applies the root flags on top of the config file and env.
func loadConfig(flags *rootFlags) (config.Config, error) {
	if flags.configPath != "" {
		if err := os.Setenv("CARDSHIFT_CONFIG", flags.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	return cfg, nil
}

// open loads config and the database. The TUI owns the terminal, so when
// logToFile is set logs go to log.path; otherwise they go to stderr.
func open(cmd *cobra.Command, flags *rootFlags, logToFile bool) (*env, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	var out io.Writer = cmd.ErrOrStderr()
	if logToFile {
		f, err := observability.OpenLogFile(cfg.Log.Path)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f)
		out = f
	}
	e.log, err = observability.NewLogger(out, cfg.Log.Level)
	if err != nil {
		e.Close()
		return nil, err
	}

	db, err := database.Prepare(cfg.Database.Path)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.closers = append(e.closers, db)
	if err := database.SeedDefaults(cmd.Context(), db); err != nil {
		e.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	e.db = db
	e.store = board.NewStore(db)
	e.log.Debug().Str("db", cfg.Database.Path).Msg("database ready")
	return e, nil
}
