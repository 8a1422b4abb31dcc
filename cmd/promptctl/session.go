package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptozer/promptozer/internal/client"
)

func newLoginCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Log in by email, creating the account on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := c.app.session.Login(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s <%s>\n", u.Name, u.Email)

			state, err := c.app.session.Start(ctx)
			if err != nil {
				return err
			}
			return c.offerMigration(ctx, state)
		},
	}
}

func newLogoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged-in user on this device",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := c.app.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			u, err := c.app.session.Current()
			if err != nil {
				return err
			}
			if u == nil {
				fmt.Fprintln(c.out, "Not logged in")
				return nil
			}
			return c.render(newUserView(u), func() {
				fmt.Fprintf(c.out, "%s <%s>\nid: %s\nmode: %s\n", u.Name, u.Email, u.ID, c.app.cfg.Mode)
			})
		},
	}
}

// offerMigration shows the one-time migration offer when it applies. On a
// terminal the user answers right away; otherwise a hint is printed.
func (c *cli) offerMigration(ctx context.Context, state *client.StartState) error {
	if !state.Migration.Eligible {
		return nil
	}

	fmt.Fprintf(c.errOut, "\n%d prompts are saved on this device from before you had an account.\n", state.Migration.LocalCount)
	if !c.interactive() {
		fmt.Fprintln(c.errOut, `Run "promptctl migrate" to copy them to your account, or "promptctl migrate skip" to stop asking.`)
		return nil
	}

	fmt.Fprint(c.errOut, "Copy them to your account now? [y]es / [n]ot now / [s]kip for good: ")
	answer, _ := c.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return c.runMigration(ctx, 0)
	case "s", "skip":
		if err := c.app.session.DeclineMigration(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.errOut, "OK, you won't be asked again.")
	default:
		fmt.Fprintln(c.errOut, "OK, you'll be asked next time.")
	}
	return nil
}
