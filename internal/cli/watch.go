package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/pipeline"
)

// watchDebounce coalesces the bursts of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// watchCommand re-renders a file whenever it changes.
func (c *CLI) watchCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a flowchart whenever the file changes",
		Long: `Render a flowchart, then render it again every time the file is saved.

Render errors are reported and watching continues. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cc, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer cc.Close()
			return c.watch(cmd, runner, args[0], opts)
		},
	}
	opts.flags(cmd)
	return cmd
}

func (c *CLI) watch(cmd *cobra.Command, runner *pipeline.Runner, name string, opts renderOpts) error {
	abs, err := filepath.Abs(name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", name)
	}
	if _, err := os.Stat(abs); err != nil {
		return errors.New(errors.ErrCodeNotFound, "file not found: %s", name)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start watcher")
	}
	defer w.Close()

	// Watch the directory: editors that save by rename replace the inode.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", filepath.Dir(abs))
	}

	rerender := func() {
		src, err := readSource(cmd, name)
		if err != nil {
			printError(cmd.ErrOrStderr(), "%s", errors.UserMessage(err))
			return
		}
		if err := c.renderTo(cmd, runner, name, src, opts); err != nil {
			c.Logger.Debug("render failed", "file", name, "error", err)
		}
	}

	rerender()
	printInfo(cmd.ErrOrStderr(), "Watching %s", name)

	ctx := cmd.Context()
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			c.Logger.Debug("file changed", "file", ev.Name, "op", ev.Op)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			rerender()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watch error", "error", err)
		}
	}
}
