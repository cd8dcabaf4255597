package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alconley/sps-plot/internal/catalog"
	"github.com/alconley/sps-plot/internal/config"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-evaluate the catalog whenever it changes",
	Long: `Watch runs an initial evaluation and then monitors the reaction catalog
file, re-running the evaluation every time it is saved. Useful while tuning
extra levels or reaction lists against the acceptance window.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// setupSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func setupSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx, cancel := setupSignalContext(cmd.Context())
	defer cancel()
	out := cmd.OutOrStdout()

	if err := runEvaluation(ctx, out, cfg); err != nil {
		return err
	}

	w, err := catalog.NewWatcher(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Catalog, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Catalog, err)
	}
	defer w.Stop()

	logf(cfg.Verbose, "watching %s", cfg.Catalog)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-w.Changes:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "\n— catalog changed, re-evaluating —\n")
			// A bad edit should not kill the watch loop.
			if err := runEvaluation(ctx, out, cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "evaluation failed: %v\n", err)
			}
		}
	}
}
