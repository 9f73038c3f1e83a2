package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/granchi/hollywood/internal/cli"
	"github.com/granchi/hollywood/internal/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the countdown demo",
	Long:  `Counts down to liftoff, printing every step, and keeps a run history in the preference store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("count") {
			cfg.Count, _ = cmd.Flags().GetInt("count")
		}
		if cmd.Flags().Changed("interval") {
			interval, _ := cmd.Flags().GetDuration("interval")
			cfg.Interval = config.Duration(interval)
		}
		if cmd.Flags().Changed("metrics") {
			cfg.MetricsAddr, _ = cmd.Flags().GetString("metrics")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := cli.NewLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err = cli.RunDemo(ctx, cfg, cmd.OutOrStdout(), logger)
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().Int("count", 0, "Seconds to count down from")
	demoCmd.Flags().Duration("interval", 0, "Time between two ticks")
	demoCmd.Flags().String("metrics", "", "Address serving /metrics, /status and /events (e.g. :9090)")
}
