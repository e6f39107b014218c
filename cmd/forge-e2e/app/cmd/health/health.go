package health

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forge-qa/forge-e2e/cmd/forge-e2e/app/cmd/global"
	"github.com/forge-qa/forge-e2e/internal/cron"
	"github.com/forge-qa/forge-e2e/test/e2e/framework"
)

type healthOptions struct {
	watch      bool
	interval   time.Duration
	minVersion string
}

// NewHealthCmd creates the health cobra command.
func NewHealthCmd() *cobra.Command {
	opts := &healthOptions{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the target is healthy",
		Long: `Call the target's health endpoint once and exit 0 when it answers 2xx.

Use --watch to keep probing and print every change until interrupted.

Examples:
  # One-shot check
  forge-e2e health

  # Require a minimum target version
  forge-e2e health --min-version 0.1.0

  # Print health transitions every 10 seconds
  forge-e2e health --watch --interval 10s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Keep probing and print health transitions")
	cmd.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "Watch probe interval")
	cmd.Flags().StringVar(&opts.minVersion, "min-version", "", "Fail unless the target reports this version or newer")

	return cmd
}

func runHealth(cmd *cobra.Command, opts *healthOptions) error {
	c, _, err := global.NewClient()
	if err != nil {
		return err
	}

	if opts.watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return watchHealth(ctx, cmd.OutOrStdout(), c, opts.interval)
	}

	return checkOnce(cmd.Context(), cmd.OutOrStdout(), c, opts.minVersion)
}

func checkOnce(ctx context.Context, w io.Writer, c *framework.Client, minVersion string) error {
	status, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("target %s is unreachable: %w", c.APIEndpoint(), err)
	}

	if !status.Healthy() {
		return fmt.Errorf("target %s is unhealthy: status %d", c.APIEndpoint(), status.StatusCode)
	}

	if minVersion != "" {
		ok, err := status.AtLeast(minVersion)
		if err != nil {
			return fmt.Errorf("failed to compare target version: %w", err)
		}

		if !ok {
			return fmt.Errorf("target version %s is older than %s", status.Version, minVersion)
		}
	}

	if status.Version != "" {
		fmt.Fprintf(w, "healthy (version %s)\n", status.Version)
	} else {
		fmt.Fprintln(w, "healthy")
	}

	return nil
}

func watchHealth(ctx context.Context, w io.Writer, c *framework.Client, interval time.Duration) error {
	err := cron.WatchHealth(ctx, interval, c.CheckHealth, func(healthy bool) {
		state := "unhealthy"
		if healthy {
			state = "healthy"
		}

		fmt.Fprintf(w, "%s %s\n", time.Now().Format(time.RFC3339), state)
	})
	if err != nil {
		return err
	}

	<-ctx.Done()

	return nil
}
