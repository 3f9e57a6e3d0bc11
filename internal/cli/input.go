package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowdoc/pkg/errors"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// inputArg returns the source argument, defaulting to stdin.
func inputArg(args []string) string {
	if len(args) == 0 {
		return stdinName
	}
	return args[0]
}

// readSource reads a source file, or stdin for "-".
func readSource(cmd *cobra.Command, name string) (string, error) {
	if name == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.ErrCodeNotFound, "file not found: %s", name)
		}
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return string(data), nil
}

// writeFile writes data to path atomically, keeping the old file's mode.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write %s", path)
	}
	return nil
}

// isJSONPath reports whether name looks like a serialized document.
func isJSONPath(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// withNewline terminates s with a single newline for file output.
func withNewline(s string) string {
	return strings.TrimRight(s, "\n") + "\n"
}
