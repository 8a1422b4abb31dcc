package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

func newListCmd(c *cli) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your prompts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			state, err := c.app.session.Start(ctx)
			if err != nil {
				return err
			}
			if state.RefreshErr != nil {
				return state.RefreshErr
			}

			prompts := state.Library.Search(search)
			if err := c.render(newPromptViews(prompts), func() { c.printPromptTable(prompts) }); err != nil {
				return err
			}
			return c.offerMigration(ctx, state)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "only prompts whose title, content or tags contain this text")
	return cmd
}

func newAddCmd(c *cli) *cobra.Command {
	var in domain.NewPrompt

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a prompt",
		Long: `Add a prompt to your library.

Without --content the prompt text is read from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := c.app.session.Library()
			if err != nil {
				return err
			}
			if in.Content == "" {
				if in.Content, err = c.readContent(); err != nil {
					return err
				}
			}

			p, err := lib.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.render(newPromptView(*p), func() {
				fmt.Fprintf(c.out, "Added %q (%s)\n", p.Title, p.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "prompt title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "prompt text")
	cmd.Flags().StringSliceVar(&in.Tags, "tags", nil, "comma-separated tags")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	return cmd
}

func newUpdateCmd(c *cli) *cobra.Command {
	var (
		title, content, category string
		tags                     []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a prompt",
		Long: `Change fields of a prompt. Only the flags you pass are changed;
--tags "" clears the tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.PromptPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("content") {
				patch.Content = &content
			}
			if flags.Changed("tags") {
				patch.Tags = &tags
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if patch.IsEmpty() {
				return domainerrors.Validation("nothing to update: pass at least one of --title, --content, --tags or --category")
			}

			lib, err := c.app.session.Library()
			if err != nil {
				return err
			}
			p, err := lib.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return c.render(newPromptView(*p), func() {
				fmt.Fprintf(c.out, "Updated %q (%s)\n", p.Title, p.ID)
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new prompt text")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "new comma-separated tags")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := c.app.session.Library()
			if err != nil {
				return err
			}
			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

// readContent reads the prompt text from stdin. On a terminal input ends at
// an empty line; otherwise everything is read.
func (c *cli) readContent() (string, error) {
	if !c.interactive() {
		data, err := io.ReadAll(c.in)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	fmt.Fprintln(c.errOut, "Prompt text (press Enter on an empty line to finish):")
	var lines []string
	for {
		line, err := c.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func (c *cli) printPromptTable(prompts []domain.Prompt) {
	if len(prompts) == 0 {
		fmt.Fprintln(c.out, "No prompts")
		return
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTAGS\tCATEGORY\tCREATED")
	for _, p := range prompts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, 40), strings.Join(p.Tags, ","), p.Category, formatMillis(p.CreatedAt)[:10])
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
