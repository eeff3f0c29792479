// Package cli is the command-line presentation layer. Every command loads the
// snapshot, calls into the manager, saves the full snapshot after a mutation
// and re-renders.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/harrisonrobin/taskflow/pkg/config"
)

type app struct {
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// configDir holds credentials, the OAuth token and the event index.
func (a *app) configDir() (string, error) {
	if a.cfgPath != "" {
		return filepath.Dir(a.cfgPath), nil
	}
	return config.GetConfigDir()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskflow",
		Short: "taskflow - a small task list with trash, deadlines and countdowns",
		Long: `taskflow keeps a personal task list in a local snapshot.

Tasks can be completed, moved to the trash, restored or deleted for good.
Deadlines show a countdown. The list can be replaced from a remote demo API
or an Org-mode file, and deadlines can be mirrored to Google Calendar.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger

			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger.Debug("Loaded config",
				zap.String("backend", cfg.Storage.Backend),
				zap.String("dir", cfg.Storage.Dir))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Config file (default ~/.config/taskflow/config.yaml)")

	root.AddCommand(
		newAddCmd(a),
		newDoneCmd(a),
		newRemoveCmd(a),
		newRestoreCmd(a),
		newPurgeCmd(a),
		newListCmd(a),
		newTrashCmd(a),
		newStatsCmd(a),
		newSyncCmd(a),
		newImportCmd(a),
		newThemeCmd(a),
		newWatchCmd(a),
		newPushCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the root command against the process's arguments.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{now: time.Now}
	root := newRootCmd(a)
	root.Version = version
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
