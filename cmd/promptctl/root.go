package main

import (
	"bufio"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/promptozer/promptozer/internal/config"
)

// cli carries the I/O streams and the per-invocation app between commands.
type cli struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	// interactive reports whether stdin is a terminal. Tests replace it.
	interactive func() bool

	cfgFile string
	output  string
	app     *app
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	return &cli{
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

func newRootCmd(c *cli) *cobra.Command {
	defaults := config.DefaultClientConfig()

	root := &cobra.Command{
		Use:   "promptctl",
		Short: "Manage your prompt library from the terminal",
		Long: `promptctl keeps a personal library of text prompts.

In remote mode (the default) prompts live on a Promptozer server and are
tied to your account. In local mode everything stays on this device.

Prompts saved on this device before you had an account can be copied to
the server once with "promptctl migrate".

Examples:
  promptctl login you@example.com
  promptctl add --title "Summarize" --content "Summarize this text" --tags writing
  promptctl list --search summar
  promptctl migrate status`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient(c.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a, err := openApp(cfg, c.errOut, c.interactive())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return c.close()
		},
	}

	root.SetIn(c.in)
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: ./promptozer.yaml or ~/.promptozer/promptozer.yaml)")
	flags.String("mode", defaults.Mode, "record store: remote or local")
	flags.String("server", defaults.ServerURL, "server URL for remote mode")
	flags.String("data-dir", defaults.DataDir, "directory for device data")
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	flags.Duration("timeout", defaults.Timeout, "request timeout")
	flags.StringVarP(&c.output, "output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newListCmd(c),
		newAddCmd(c),
		newUpdateCmd(c),
		newDeleteCmd(c),
		newMigrateCmd(c),
	)
	return root
}

// close releases the app. It is safe to call more than once.
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}
