package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
	"github.com/matzehuels/flowdoc/pkg/render"
	"github.com/matzehuels/flowdoc/pkg/share"
)

func (c *CLI) shareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode and decode share links",
	}
	cmd.AddCommand(c.shareEncodeCommand())
	cmd.AddCommand(c.shareDecodeCommand())
	return cmd
}

func (c *CLI) shareEncodeCommand() *cobra.Command {
	var theme, base string
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Print a share token or link for a source file",
		Long: `Compress a source file and its theme into a URL-safe token.

With --base the token is appended to the given URL as the "d" query
parameter and the full link is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, inputArg(args))
			if err != nil {
				return err
			}
			if theme != "" {
				if _, err := render.ParseTheme(theme); err != nil {
					return err
				}
			}
			state := share.State{Code: src, Theme: theme}

			var out string
			if base != "" {
				out, err = share.EncodeURL(base, state)
			} else {
				out, err = share.Encode(state)
			}
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode share link")
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&theme, "theme", "t", "", "theme to store with the source")
	cmd.Flags().StringVar(&base, "base", "", "base URL for a full link")
	return cmd
}

func (c *CLI) shareDecodeCommand() *cobra.Command {
	var showTheme bool
	cmd := &cobra.Command{
		Use:   "decode <token|url>",
		Short: "Print the source stored in a share token or link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			var state *share.State
			if strings.Contains(arg, "://") {
				state = share.DecodeURL(arg)
			} else {
				state = share.Decode(arg)
			}
			if state == nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid share token")
			}
			if showTheme && state.Theme != "" {
				printKeyValue(cmd.ErrOrStderr(), "theme", state.Theme)
			}
			fmt.Fprint(cmd.OutOrStdout(), withNewline(state.Code))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTheme, "theme", false, "also print the stored theme")
	return cmd
}
