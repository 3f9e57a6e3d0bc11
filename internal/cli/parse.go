package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
	flowio "github.com/matzehuels/flowdoc/pkg/io"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

// parseCommand prints the document model of a source file.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		docOnly bool
	)
	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse flowchart source into a JSON document",
		Long: `Parse flowchart source into the JSON document model.

By default the parse result is printed: the document plus any warnings.
With --doc only the document is printed, in the form accepted by
"validate", "render" and the HTTP API. With -o the document is written
to a file instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, inputArg(args))
			if err != nil {
				return err
			}
			res := pipeline.NewRunner(nil, c.Logger).Parse(cmd.Context(), src)
			reportWarnings(cmd, res.Warnings)

			switch {
			case output != "":
				if err := flowio.ExportFile(res.Doc, output); err != nil {
					return err
				}
				printSuccess(cmd.ErrOrStderr(), "Parsed %d nodes, %d edges", len(res.Doc.Nodes), len(res.Doc.Edges))
				printFile(cmd.ErrOrStderr(), output)
				return nil
			case docOnly:
				return flowio.WriteDocument(res.Doc, cmd.OutOrStdout())
			default:
				return writeJSON(cmd, res)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the document to a JSON file")
	cmd.Flags().BoolVar(&docOnly, "doc", false, "print only the document")
	return cmd
}

// detectCommand prints the diagram type of a source file.
func (c *CLI) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Print the diagram type of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, inputArg(args))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), diagram.Detect(src))
			return nil
		},
	}
}

// loadDocument reads a document from a JSON file or parses flowchart
// source. The returned source is empty for JSON input.
func (c *CLI) loadDocument(cmd *cobra.Command, name string) (diagram.Document, string, error) {
	if isJSONPath(name) {
		doc, err := flowio.ImportFile(name)
		return doc, "", err
	}
	src, err := readSource(cmd, name)
	if err != nil {
		return diagram.Document{}, "", err
	}
	res := pipeline.NewRunner(nil, c.Logger).Parse(cmd.Context(), src)
	reportWarnings(cmd, res.Warnings)
	return res.Doc, src, nil
}

func reportWarnings(cmd *cobra.Command, warnings []diagram.ParseWarning) {
	for _, w := range warnings {
		if w.Line > 0 {
			printWarning(cmd.ErrOrStderr(), "line %d: %s", w.Line, w.Message)
		} else {
			printWarning(cmd.ErrOrStderr(), "%s", w.Message)
		}
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode output")
	}
	return nil
}
