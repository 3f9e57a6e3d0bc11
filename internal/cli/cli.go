// Package cli implements the flowdoc command-line interface.
//
// Commands fall into three groups:
//   - text tools: parse, fmt, validate, detect, compose
//   - output: render, watch, share
//   - state: edit, docs, cache, serve
//
// Source files are read from a path argument or from stdin when the
// argument is "-" or missing. Configuration comes from --config (or the
// default config.toml) overlaid with FLOWDOC_* environment variables.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/buildinfo"
	"github.com/matzehuels/flowdoc/pkg/cache"
	"github.com/matzehuels/flowdoc/pkg/config"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
	"github.com/matzehuels/flowdoc/pkg/render"
	"github.com/matzehuels/flowdoc/pkg/store"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowdoc",
		Short: "flowdoc edits flowchart diagrams as text and as a graph",
		Long: `flowdoc parses flowchart source into an editable document model,
serializes it back to canonical text, renders it to SVG or PNG and
keeps a versioned store of documents.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.shareCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads configuration and applies its log level unless
// --verbose was given.
func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	switch {
	case c.verbose:
		c.SetLogLevel(LogDebug)
	default:
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Collaborator Factories
// =============================================================================

// newRunner creates a pipeline runner whose renderer caches through the
// configured backend. The returned cache must be closed by the caller.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, cache.Cache, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	r := render.New(
		render.WithCache(cc, c.cfg.Cache.TTL.Duration),
		render.WithLogger(c.Logger),
	)
	return pipeline.NewRunner(r, c.Logger), cc, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := cache.New(ctx, c.cfg.Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "error", err)
		return cache.NewNullCache(), nil
	}
	return cc, nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.New(ctx, c.cfg.Store)
}
