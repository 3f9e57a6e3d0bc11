package cli

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

type fmtOpts struct {
	write bool
	check bool
	diff  bool
}

// fmtCommand rewrites source files in canonical form.
func (c *CLI) fmtCommand() *cobra.Command {
	var opts fmtOpts
	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Rewrite flowchart source in canonical form",
		Long: `Rewrite flowchart source in canonical form: a header line, one
declaration per node sorted by id, then one line per edge.

Without flags the formatted source is printed. --write rewrites files in
place, --check fails if any file is not formatted and --diff prints a
unified diff instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdinName}
			}
			if opts.write && args[0] == stdinName {
				return errors.New(errors.ErrCodeInvalidInput, "--write needs a file argument")
			}

			runner := pipeline.NewRunner(nil, c.Logger)
			var unformatted []string
			for _, name := range args {
				changed, err := c.fmtFile(cmd, runner, name, opts)
				if err != nil {
					return err
				}
				if changed {
					unformatted = append(unformatted, name)
				}
			}
			if opts.check && len(unformatted) > 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%d file(s) not formatted", len(unformatted))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVar(&opts.check, "check", false, "fail if any file is not formatted")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a unified diff")
	cmd.MarkFlagsMutuallyExclusive("write", "diff")
	return cmd
}

func (c *CLI) fmtFile(cmd *cobra.Command, runner *pipeline.Runner, name string, opts fmtOpts) (bool, error) {
	src, err := readSource(cmd, name)
	if err != nil {
		return false, err
	}
	res := runner.Format(cmd.Context(), src)
	formatted := withNewline(res.Code)
	changed := formatted != src

	switch {
	case opts.diff:
		if changed {
			diff, err := unifiedDiff(name, src, formatted)
			if err != nil {
				return changed, err
			}
			printDiff(cmd.OutOrStdout(), diff)
		}
	case opts.write:
		if changed {
			if err := writeFile(name, []byte(formatted)); err != nil {
				return changed, err
			}
			printFile(cmd.ErrOrStderr(), name)
		}
	case opts.check:
		if changed {
			printWarning(cmd.ErrOrStderr(), "%s is not formatted", name)
		}
	default:
		fmt.Fprint(cmd.OutOrStdout(), formatted)
	}
	return changed, nil
}

func unifiedDiff(name, a, b string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: name,
		ToFile:   name + " (formatted)",
		Context:  3,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "diff %s", name)
	}
	return diff, nil
}
