package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

// validateCommand checks a document for dangling edges.
func (c *CLI) validateCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a document for edges to unknown nodes",
		Long: `Check a document for edges whose endpoints name no node.

The input is flowchart source, or a JSON document when the file name ends
in .json; JSON input is also checked against the document schema.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := c.loadDocument(cmd, inputArg(args))
			if err != nil {
				return err
			}
			issues := pipeline.NewRunner(nil, c.Logger).Validate(cmd.Context(), doc)

			if asJSON {
				if err := writeJSON(cmd, map[string]any{"issues": issues}); err != nil {
					return err
				}
			} else {
				for _, is := range issues {
					printError(cmd.OutOrStdout(), "%s: %s", is.Path, is.Message)
				}
			}
			if len(issues) > 0 {
				return errors.New(errors.ErrCodeInvalidDocument, "%d validation issue(s)", len(issues))
			}
			if !asJSON {
				printSuccess(cmd.OutOrStdout(), "%d nodes, %d edges, no issues", len(doc.Nodes), len(doc.Edges))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	return cmd
}
