package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/compass/internal/logging"
	"github.com/mesh-intelligence/compass/internal/paths"
	"github.com/mesh-intelligence/compass/pkg/compass"
	"github.com/mesh-intelligence/compass/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// userError marks failures caused by the caller's input: bad flags, an
// unreadable context file, an invalid context or catalog.
type userError struct{ err error }

func (e userError) Error() string { return e.err.Error() }
func (e userError) Unwrap() error { return e.err }

func asUserError(err error) error {
	if err == nil {
		return nil
	}
	return userError{err}
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue userError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, types.ErrContextValidation),
		errors.Is(err, types.ErrCatalogIntegrity),
		errors.Is(err, types.ErrEmptyCatalog):
		return exitUserError
	default:
		return exitSysError
	}
}

// app holds flag values and the state built in PersistentPreRunE.
type app struct {
	flagConfigDir     string
	flagCatalogDir    string
	flagCatalogFormat string
	flagLogLevel      string
	flagJSON          bool

	cfg settings
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}

	root := &cobra.Command{
		Use:           "compass",
		Short:         "Compass recommends management frameworks and plans their adoption",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flagCatalogDir, "catalog-dir", "", "catalog directory (default: built-in catalog)")
	root.PersistentFlags().StringVar(&a.flagCatalogFormat, "catalog-format", "", "catalog format: auto, builtin, yaml or jsonl")
	root.PersistentFlags().StringVar(&a.flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newRecommendCmd(a))
	root.AddCommand(newJourneyCmd(a))
	root.AddCommand(newBatchCmd(a))
	root.AddCommand(newCatalogCmd(a))
	return root
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := settingsFrom(v)
	cfg.CatalogDir, err = paths.ResolveCatalogDir(a.flagCatalogDir, cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("resolve catalog dir: %w", err)
	}
	if a.flagCatalogFormat != "" {
		cfg.CatalogFormat = a.flagCatalogFormat
	}
	if a.flagLogLevel != "" {
		cfg.LogLevel = a.flagLogLevel
	}
	if err := cfg.validate(); err != nil {
		return asUserError(err)
	}

	logger, err := logging.New(cfg.LogLevel, a.flagJSON)
	if err != nil {
		return asUserError(err)
	}
	a.cfg = cfg
	a.log = logger.With(zap.String("component", "compass"))
	return nil
}

// newEngine loads the configured catalog and returns an engine over it.
func (a *app) newEngine() (*compass.Engine, error) {
	c, err := loadCatalog(a.cfg.CatalogFormat, a.cfg.CatalogDir)
	if err != nil {
		return nil, err
	}
	a.log.Debug("catalog loaded",
		zap.String("snapshot", c.SnapshotID()),
		zap.Int("frameworks", c.Len()),
		zap.String("dir", a.cfg.CatalogDir))

	e, err := compass.New(c,
		compass.WithLogger(a.log),
		compass.WithMinScore(a.cfg.MinScore),
		compass.WithJourneyPoolSize(a.cfg.JourneyPoolSize),
		compass.WithPhaseCapacity(a.cfg.PhaseCapacity),
	)
	if err != nil {
		return nil, asUserError(err)
	}
	return e, nil
}
