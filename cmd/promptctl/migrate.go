package main

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

// retryDelay is the base backoff between migration attempts.
var retryDelay = time.Second

func newMigrateCmd(c *cli) *cobra.Command {
	var retries uint

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy prompts saved on this device to your account",
		Long: `Copy prompts saved on this device before you had an account to the
server. Prompts already on the server are not duplicated, so running it
again is safe. Device data is left untouched.

With --retries, a run that fails because the server could not be reached
is repeated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runMigration(cmd.Context(), retries)
		},
	}
	cmd.Flags().UintVar(&retries, "retries", 0, "retry this many times when the server is unreachable")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the migration is pending",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				status, err := c.app.session.MigrationStatus(cmd.Context())
				if err != nil {
					return err
				}
				return c.render(newStatusView(status), func() {
					fmt.Fprintf(c.out, "marker: %s\ndevice prompts: %d\npending: %t\n",
						status.Marker, status.LocalCount, status.Eligible)
				})
			},
		},
		&cobra.Command{
			Use:   "skip",
			Short: "Stop offering the migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := c.app.session.DeclineMigration(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "Migration offer dismissed")
				return nil
			},
		},
	)
	return cmd
}

// runMigration runs the migration, retrying transport failures. Retrying
// is safe because already-copied prompts are skipped.
func (c *cli) runMigration(ctx context.Context, retries uint) error {
	var result *domain.MigrationResult

	err := retry.Do(
		func() error {
			var err error
			result, err = c.app.session.Migrate(ctx)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(retries+1),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return domainerrors.Is(err, domainerrors.ErrTransport)
		}),
		retry.OnRetry(func(n uint, err error) {
			// also called after the final attempt
			if n >= retries {
				return
			}
			c.app.logger.Warn("migration attempt failed, retrying", "attempt", n+1, "error", err)
			fmt.Fprintf(c.errOut, "Server unreachable, retrying (%d/%d)...\n", n+1, retries)
		}),
	)
	if err != nil {
		if result != nil && result.Migrated > 0 {
			fmt.Fprintf(c.errOut, "%d of %d prompts were copied before the failure. Run \"promptctl migrate\" again to finish.\n",
				result.Migrated, result.Total)
		}
		return err
	}

	return c.render(newMigrationView(result), func() {
		fmt.Fprintln(c.out, result.Message)
		if result.Skipped > 0 {
			fmt.Fprintf(c.out, "%d already in your account\n", result.Skipped)
		}
	})
}
