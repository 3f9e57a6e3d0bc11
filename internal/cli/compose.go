package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/compose"
	"github.com/matzehuels/flowdoc/pkg/diagram"
	"github.com/matzehuels/flowdoc/pkg/errors"
	flowio "github.com/matzehuels/flowdoc/pkg/io"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

type composeOpts struct {
	op     compose.Op
	node   string
	edge   string
	write  bool
	asJSON bool
}

// composeCommand applies one editing operation to a document.
func (c *CLI) composeCommand() *cobra.Command {
	var opts composeOpts
	cmd := &cobra.Command{
		Use:   "compose <op> [file]",
		Short: "Apply an editing operation to a document",
		Long: `Apply an editing operation and print the resulting source.

Operations:
  add_node                       append a node on the grid
  add_node_at --x --y            add a node at a snapped position
  move_node --id --x --y         move a node
  label_node --id --label        relabel a node
  shape_node --id --shape        reshape a node (rect, round, diamond, stadium)
  label_edge --id --label        relabel an edge
  style_edge --id --style        restyle an edge (solid, dotted, thick)
  connect --source --target      add an edge
  remove --node ID | --edge ID   remove a node (and its edges) or an edge
  direction --direction DIR      set the flow direction (TD, TB, BT, RL, LR)`,
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: opKindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.op.Op = compose.OpKind(args[0])
			switch {
			case opts.node != "" && opts.edge != "":
				return errors.New(errors.ErrCodeInvalidInput, "--node and --edge are mutually exclusive")
			case opts.node != "":
				opts.op.Selection = compose.NodeSelection(opts.node)
			case opts.edge != "":
				opts.op.Selection = compose.EdgeSelection(opts.edge)
			}
			return c.runCompose(cmd, args[1:], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.op.ID, "id", "", "node or edge id")
	f.Float64Var(&opts.op.X, "x", 0, "x position")
	f.Float64Var(&opts.op.Y, "y", 0, "y position")
	f.StringVar(&opts.op.Label, "label", "", "label text")
	f.StringVar((*string)(&opts.op.Shape), "shape", "", "node shape: "+shapeNames())
	f.StringVar((*string)(&opts.op.Style), "style", "", "edge style")
	f.StringVar(&opts.op.Source, "source", "", "edge source node")
	f.StringVar(&opts.op.Target, "target", "", "edge target node")
	f.StringVar((*string)(&opts.op.Direction), "direction", "", "flow direction")
	f.StringVar(&opts.node, "node", "", "node to remove")
	f.StringVar(&opts.edge, "edge", "", "edge to remove")
	f.BoolVarP(&opts.write, "write", "w", false, "write the result back to the file")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (c *CLI) runCompose(cmd *cobra.Command, args []string, opts composeOpts) error {
	name := inputArg(args)
	if opts.write && name == stdinName {
		return errors.New(errors.ErrCodeInvalidInput, "--write needs a file argument")
	}

	doc, _, err := c.loadDocument(cmd, name)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(nil, c.Logger)
	res, err := runner.Compose(cmd.Context(), doc, opts.op)
	if err != nil {
		return err
	}
	if !res.Applied {
		printWarning(cmd.ErrOrStderr(), "%s: nothing changed", opts.op.Op)
	} else if res.ID != "" {
		printSuccess(cmd.ErrOrStderr(), "%s: %s", opts.op.Op, res.ID)
	}

	if opts.asJSON {
		return writeJSON(cmd, res)
	}
	if opts.write {
		if isJSONPath(name) {
			return flowio.ExportFile(res.Doc, name)
		}
		return writeFile(name, []byte(withNewline(runner.Serialize(cmd.Context(), res.Doc))))
	}
	fmt.Fprintln(cmd.OutOrStdout(), runner.Serialize(cmd.Context(), res.Doc))
	return nil
}

func opKindNames() []string {
	names := make([]string, len(compose.OpKinds))
	for i, k := range compose.OpKinds {
		names[i] = string(k)
	}
	return names
}

// shapeNames lists node shapes for help and completion.
func shapeNames() string {
	return strings.Join([]string{
		string(diagram.ShapeRect), string(diagram.ShapeRound),
		string(diagram.ShapeDiamond), string(diagram.ShapeStadium),
	}, ", ")
}
