package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
	"github.com/matzehuels/flowdoc/pkg/render"
)

type renderOpts struct {
	output  string
	theme   string
	format  string
	noCache bool
}

func (o *renderOpts) flags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: input name with the format's extension)")
	cmd.Flags().StringVarP(&o.theme, "theme", "t", "", "theme: "+strings.Join(themeNames(), ", ")+" (default from config)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: svg, png (default from config)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "bypass the render cache")
}

// request fills unset options from configuration.
func (o *renderOpts) request(cfg config.RenderConfig, code string) pipeline.RenderRequest {
	req := pipeline.RenderRequest{Code: code, Theme: o.theme, Format: o.format}
	if req.Theme == "" {
		req.Theme = cfg.Theme
	}
	if req.Format == "" {
		req.Format = cfg.Format
	}
	return req
}

// renderCommand draws a flowchart to SVG or PNG.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a flowchart to SVG or PNG",
		Long: `Render a flowchart to SVG or PNG with Graphviz.

Rendered images are cached by source, theme and format. When the source
comes from stdin and no -o is given, the image is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cc, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer cc.Close()

			name := inputArg(args)
			src, err := readSource(cmd, name)
			if err != nil {
				return err
			}
			return c.renderTo(cmd, runner, name, src, opts)
		},
	}
	opts.flags(cmd)
	return cmd
}

// renderTo renders src and writes the image to the output derived from
// name and opts.
func (c *CLI) renderTo(cmd *cobra.Command, runner *pipeline.Runner, name, src string, opts renderOpts) error {
	ctx := cmd.Context()
	req := opts.request(c.cfg.Render, src)
	if strings.TrimSpace(src) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "nothing to render: %s is empty", name)
	}

	out := opts.output
	if out == "" && name != stdinName {
		format, err := render.ParseFormat(req.Format)
		if err != nil {
			return err
		}
		out = strings.TrimSuffix(name, filepath.Ext(name)) + "." + string(format)
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if out != "" {
		spin = newSpinner(ctx, cmd.ErrOrStderr(), "Rendering...")
		spin.Start()
	}
	res, err := runner.Render(ctx, req)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}
	if res.Error != "" {
		printError(cmd.ErrOrStderr(), "%s", res.Message)
		if res.Line > 0 {
			printDetail(cmd.ErrOrStderr(), "%s:%d", name, res.Line)
		}
		return errors.New(errors.ErrCodeRenderFailed, "%s", res.Message)
	}

	if out == "" {
		_, err := cmd.OutOrStdout().Write(res.Image)
		return err
	}
	if err := writeFile(out, res.Image); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", out))
	doc := runner.Parse(ctx, src).Doc
	printStats(cmd.ErrOrStderr(), len(doc.Nodes), len(doc.Edges), res.Cached)
	return nil
}

func themeNames() []string {
	names := make([]string, len(render.Themes))
	for i, t := range render.Themes {
		names[i] = string(t)
	}
	return names
}
