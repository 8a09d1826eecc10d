package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jask/cardshift/internal/board"
	"github.com/jask/cardshift/internal/config"
	"github.com/jask/cardshift/internal/database"
	"github.com/jask/cardshift/internal/dnd"
	"github.com/jask/cardshift/internal/observability"
	"github.com/jask/cardshift/internal/tui"
)

func newRunCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd, flags, true)
			if err != nil {
				return err
			}
			defer e.Close()
			ctx := cmd.Context()

			if path := e.cfg.Board.SeedFile; path != "" {
				if err := seedFrom(cmd, e, path); err != nil {
					return err
				}
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			if addr := e.cfg.Metrics.Addr; addr != "" {
				go func() {
					if err := observability.Serve(ctx, addr, reg, e.log); err != nil {
						e.log.Error().Err(err).Msg("metrics server stopped")
					}
				}()
			}

			b, err := board.New(ctx, e.store, board.Options{WIPLimit: e.cfg.Lanes.WIPLimit, Logger: e.log})
			if err != nil {
				return err
			}
			dragOpts, err := e.cfg.CoordinatorOptions()
			if err != nil {
				return err
			}
			dragOpts = append(dragOpts, dnd.WithLogger(e.log), dnd.WithMetrics(metrics))
			app, err := tui.New(b, tui.Options{
				Drag:              dragOpts,
				AllowableMovement: e.cfg.Drag.AllowableMovement,
				Logger:            e.log,
			})
			if err != nil {
				return err
			}
			e.log.Info().Int("lanes", len(b.Lanes)).Msg("board opened")
			return tui.Run(app)
		},
	}
}

func newSeedCommand(flags *rootFlags) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load lanes, cards and templates from a YAML board file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd, flags, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if file == "" {
				file = e.cfg.Board.SeedFile
			}
			if file == "" {
				return errors.New("no board file: pass --file or set board.seed_file")
			}
			return seedFrom(cmd, e, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML board file")
	return cmd
}

func seedFrom(cmd *cobra.Command, e *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open board file: %w", err)
	}
	defer f.Close()
	s, err := board.ParseSeed(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	res, err := board.Apply(cmd.Context(), e.store, s)
	if err != nil {
		return err
	}
	e.log.Info().
		Str("file", path).
		Int("lanes", res.Lanes).
		Int("cards", res.Cards).
		Int("skipped", res.Skipped).
		Int("templates", res.Templates).
		Msg("board seeded")
	return nil
}

func newAddCommand(flags *rootFlags) *cobra.Command {
	var lane string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a card to the end of a lane",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd, flags, false)
			if err != nil {
				return err
			}
			defer e.Close()
			title := strings.Join(args, " ")
			card, err := board.AddCard(cmd.Context(), e.store, lane, title)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s at %d\n", card.Title, lane, card.Position+1)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lane, "lane", "l", "Backlog", "Lane to add the card to")
	return cmd
}

func newShowCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the board as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd, flags, false)
			if err != nil {
				return err
			}
			defer e.Close()
			b, err := board.New(cmd.Context(), e.store, board.Options{WIPLimit: e.cfg.Lanes.WIPLimit, Logger: e.log})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.Text())
			return err
		},
	}
}

func newResetCommand(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every lane, card and move and restore the default board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes the whole board; pass --yes to confirm")
			}
			e, err := open(cmd, flags, false)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := database.Reset(cmd.Context(), e.db); err != nil {
				return err
			}
			if err := database.SeedDefaults(cmd.Context(), e.db); err != nil {
				return err
			}
			e.log.Info().Str("db", e.cfg.Database.Path).Msg("board reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}

func newHistoryCommand(flags *rootFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent card moves, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open(cmd, flags, false)
			if err != nil {
				return err
			}
			defer e.Close()
			moves, err := e.store.Moves.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("WHEN", "CARD", "FROM", "TO")
			for _, m := range moves {
				t.Row(m.MovedAt.Local().Format("2006-01-02 15:04"), m.Title, m.From, m.To)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of moves to show")
	return cmd
}
