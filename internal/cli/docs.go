package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
	"github.com/matzehuels/flowdoc/pkg/render"
	"github.com/matzehuels/flowdoc/pkg/store"
)

// docsCommand manages stored documents.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage stored documents and their history",
	}
	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsGetCommand())
	cmd.AddCommand(c.docsPutCommand())
	cmd.AddCommand(c.docsRmCommand())
	cmd.AddCommand(c.docsHistoryCommand())
	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) getRecord(ctx context.Context, st store.Store, id string) (*store.Record, error) {
	if err := errors.ValidateDocumentID(id); err != nil {
		return nil, err
	}
	rec, err := st.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
	}
	return rec, nil
}

func (c *CLI) docsListCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				recs, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					if recs == nil {
						recs = []*store.Record{}
					}
					return writeJSON(cmd, recs)
				}
				if len(recs) == 0 {
					printInfo(cmd.OutOrStdout(), "No documents")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), recordTable(recs, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func recordTable(recs []*store.Record, now time.Time) string {
	header := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{
			r.ID,
			r.Title,
			fmt.Sprintf("%d", len(r.Document.Nodes)),
			fmt.Sprintf("%d", len(r.Document.Edges)),
			relativeTime(r.UpdatedAt, now),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Nodes", "Edges", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return header
			case col == 0:
				return StyleHighlight
			case col == 4:
				return StyleDim
			default:
				return lipgloss.NewStyle()
			}
		}).
		Render()
}

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func (c *CLI) docsGetCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print the source of a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := c.getRecord(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, rec)
				}
				fmt.Fprint(cmd.OutOrStdout(), withNewline(rec.Code))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")
	return cmd
}

func (c *CLI) docsPutCommand() *cobra.Command {
	var id, title, theme string
	cmd := &cobra.Command{
		Use:   "put [file]",
		Short: "Store a source file as a document",
		Long: `Store a source file as a document and append it to the document's
history. Without --id a new document is created; with --id an existing
document is replaced and its creation time kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := inputArg(args)
			src, err := readSource(cmd, name)
			if err != nil {
				return err
			}
			if theme != "" {
				if _, err := render.ParseTheme(theme); err != nil {
					return err
				}
			}
			if id == "" {
				id = store.NewID()
			}
			if title == "" {
				title = defaultTitle(name)
			}

			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				rec := &store.Record{
					ID:       id,
					Title:    title,
					Theme:    theme,
					Code:     src,
					Document: pipeline.NewRunner(nil, c.Logger).Parse(ctx, src).Doc,
				}
				if err := st.Put(ctx, rec); err != nil {
					return err
				}
				added, err := st.AddSnapshot(ctx, id, src)
				if err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Stored %s", StyleHighlight.Render(rec.Title))
				if !added {
					printDetail(cmd.ErrOrStderr(), "source unchanged; no new history entry")
				}
				fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "document id (default: a new id)")
	cmd.Flags().StringVar(&title, "title", "", "document title (default: file name)")
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "preferred theme")
	return cmd
}

func defaultTitle(name string) string {
	if name == stdinName {
		return "Untitled"
	}
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

func (c *CLI) docsRmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete documents and their history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				for _, id := range args {
					if _, err := c.getRecord(cmd.Context(), st, id); err != nil {
						return err
					}
					if err := st.Delete(cmd.Context(), id); err != nil {
						return err
					}
					printSuccess(cmd.OutOrStdout(), "Deleted %s", id)
				}
				return nil
			})
		},
	}
}

func (c *CLI) docsHistoryCommand() *cobra.Command {
	var (
		clearAll bool
		show     int
	)
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "List or clear the history of a document",
		Long: `List the saved versions of a document, oldest first.

--show N prints the source of version N (1 is the oldest) and --clear
deletes the history while keeping the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				rec, err := c.getRecord(ctx, st, args[0])
				if err != nil {
					return err
				}
				if clearAll {
					if err := st.ClearHistory(ctx, rec.ID); err != nil {
						return err
					}
					printSuccess(cmd.OutOrStdout(), "Cleared history of %s", rec.ID)
					return nil
				}

				snaps, err := st.Snapshots(ctx, rec.ID)
				if err != nil {
					return err
				}
				if show > 0 {
					if show > len(snaps) {
						return errors.New(errors.ErrCodeNotFound, "version %d not found (%d versions)", show, len(snaps))
					}
					fmt.Fprint(cmd.OutOrStdout(), withNewline(snaps[show-1].Code))
					return nil
				}
				if len(snaps) == 0 {
					printInfo(cmd.OutOrStdout(), "No history")
					return nil
				}
				for i, s := range snaps {
					first, _, _ := strings.Cut(strings.TrimSpace(s.Code), "\n")
					fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s  %s\n",
						i+1, StyleDim.Render(s.Timestamp.Local().Format(time.DateTime)), first)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete the history")
	cmd.Flags().IntVar(&show, "show", 0, "print the source of version N")
	return cmd
}
