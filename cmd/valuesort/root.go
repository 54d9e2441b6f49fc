package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/config"
	"github.com/jask/valuesort/internal/logging"
	"github.com/jask/valuesort/internal/persistence"
	"github.com/jask/valuesort/internal/service"
	"github.com/jask/valuesort/internal/tui"
)

// Global flags
var configPath string

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "valuesort",
		Short: "Rank your life values",
		Long: `valuesort lets you pick values from a fixed list of forty and put them
in order of importance. The ranking is saved after every change and can be
exported to or imported from a name,position CSV file.

Run without a subcommand to open the interactive ranking view.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")

	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newResetCommand())

	return rootCmd
}

// app is everything a command needs, opened from config.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	svc     *service.RankingService
	closers []io.Closer
}

// openApp loads config, logging, catalog and storage. With requireStore
// unset a storage failure is logged and the session runs in memory.
func openApp(ctx context.Context, requireStore bool) (*app, error) {
	if configPath != "" {
		if err := os.Setenv("VALUESORT_CONFIG", configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.Log.Path,
	})
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("catalog: %w", err)
	}

	store, err := persistence.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.Storage.Key)
	if err != nil && requireStore {
		a.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}
	var svc *service.RankingService
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Storage.Backend).Msg("open storage")
		svc = service.NewRankingService(ctx, cat, nil, logging.Component(log, "service"))
		svc.Detach(err)
	} else {
		a.closers = append(a.closers, store)
		svc = service.NewRankingService(ctx, cat, store, logging.Component(log, "service"))
	}
	svc.TrustPositions = cfg.Import.TrustPositions
	a.svc = svc
	log.Debug().
		Str("backend", cfg.Storage.Backend).
		Int("catalog", cat.Len()).
		Int("ranked", svc.Len()).
		Msg("session opened")
	return a, nil
}

// Close releases the store and log file, newest first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(tui.New(ctx, a.cfg, a.svc, logging.Component(a.log, "tui")), opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
