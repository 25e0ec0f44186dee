package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vertex/internal/adapter/logging"
	"vertex/internal/app"
	"vertex/internal/config"
	"vertex/internal/di"
	"vertex/internal/domain/model"
)

// cli carries what the subcommands share. The tracker is opened on first use
// so that config-only failures do not touch the store.
type cli struct {
	cfgPath  string
	logLevel string

	cfg     *config.Config
	logger  *zap.Logger
	tracker *app.Tracker
	cleanup func()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vertex",
		Short: "Track progress through coding-interview practice sheets",
		Long: `Vertex imports practice sheets from spreadsheets, CSV or HTML tables and
tracks which problems you have solved, bookmarked or marked for revision.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if c.logLevel != "" {
				cfg.Log.Level = c.logLevel
			}
			logger, err := logging.Build(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&c.cfgPath, "config", "c", "", "config file (default ~/.vertex/config.yaml)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override LOG_LEVEL")

	root.AddCommand(
		c.importCmd(),
		c.sheetsCmd(),
		c.showCmd(),
		c.renameCmd(),
		c.deleteCmd(),
		c.statusCmd(),
		c.setStatusCmd("solve", "Mark a question as solved", model.StatusSolved),
		c.setStatusCmd("unsolve", "Move a question back to pending", model.StatusPending),
		c.bookmarkCmd(),
		c.noteCmd(),
		c.addCmd(),
		c.editCmd(),
		c.removeCmd(),
		c.dashboardCmd(),
		c.enrichCmd(),
		c.digestCmd(),
		c.serveCmd(),
	)
	return root
}

// open initialises the tracker once per process.
func (c *cli) open(ctx context.Context) (*app.Tracker, error) {
	if c.tracker != nil {
		return c.tracker, nil
	}
	tracker, cleanup, err := di.InitializeTracker(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.tracker = tracker
	c.cleanup = cleanup
	return tracker, nil
}

func (c *cli) close() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
	c.tracker = nil
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
