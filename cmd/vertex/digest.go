package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vertex/internal/di"
)

func (c *cli) digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest",
		Short: "Send the progress digest once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.cfg.HasNotifier() {
				return fmt.Errorf("no notifier configured: set DISCORD_WEBHOOK_URL or TELEGRAM_BOT_TOKEN")
			}
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := tracker.Digest.Run(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Digest sent.")
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Send the digest now and then on SCHEDULE_CRON until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.ValidateDaemon(); err != nil {
				return err
			}
			application, cleanup, err := di.InitializeApp(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer cleanup()
			return application.Run(cmd.Context())
		},
	}
}
