// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/cgd/config"
)

const version = "0.1.0"

// cli carries the loaded configuration and the global flags to every
// subcommand.
type cli struct {
	cfg *config.Config

	dataDir     string
	concurrency int
	timeout     time.Duration
	quiet       bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:          "cgd",
		Short:        "Look up Chinese company registration and listing data",
		Long:         `Resolve company names to unified social credit codes or to stock codes and top shareholders, caching answers in the data directory.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "Data directory holding the caches (or set CGD_DATA)")
	rootCmd.PersistentFlags().IntVar(&c.concurrency, "concurrency", 0, "Maximum lookups in flight (or set CGD_BATCH_CONCURRENCY)")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 0, "Timeout for a single lookup (or set CGD_BATCH_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "Do not draw the progress bar")

	rootCmd.AddCommand(newTyxymCmd(c))
	rootCmd.AddCommand(newCninfoCmd(c))

	return rootCmd
}

// load reads configuration, applies flag overrides and checks the data
// directory before any subcommand runs.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.DataDir = c.dataDir
	}
	if flags.Changed("concurrency") {
		cfg.Batch.Concurrency = c.concurrency
	}
	if flags.Changed("timeout") {
		cfg.Batch.Timeout = c.timeout
	}

	if err := cfg.CheckDataDir(); err != nil {
		return err
	}

	slog.Debug("Loaded configuration",
		slog.String("dataDir", cfg.DataDir),
		slog.Int("concurrency", cfg.Batch.Concurrency),
		slog.Duration("timeout", cfg.Batch.Timeout))

	c.cfg = cfg
	return nil
}

// handleSignals returns a context that is cancelled on SIGINT or SIGTERM so
// an interrupted batch still reports what it resolved.
func handleSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the root command and exits non-zero on any fatal error.
// This is called by main.main().
func Execute() {
	ctx, shutdown, err := setupTelemetry("cgd")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up telemetry: %v\n", err)
		os.Exit(1)
	}

	err = newRootCmd().ExecuteContext(ctx)

	if shutdownErr := shutdown(); shutdownErr != nil {
		slog.Warn("Telemetry shutdown failed", slog.Any("error", shutdownErr))
	}
	if err != nil {
		os.Exit(1)
	}
}
