package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/flowdoc/internal/cli"
	flowerrors "github.com/matzehuels/flowdoc/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, flowerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for bad input and 1 for everything else.
func exitCode(err error) int {
	switch flowerrors.GetCode(err) {
	case flowerrors.ErrCodeInvalidInput, flowerrors.ErrCodeInvalidDocument,
		flowerrors.ErrCodeInvalidTheme, flowerrors.ErrCodeInvalidFormat,
		flowerrors.ErrCodeInvalidDirection, flowerrors.ErrCodeInvalidConfig:
		return 2
	default:
		return 1
	}
}
