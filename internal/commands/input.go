package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// maxInputBytes caps a single payload read from a file or stdin.
const maxInputBytes = 16 * 1024 * 1024

// openInput opens the optional [file|-] argument; no argument or "-" is stdin.
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "-", nil
	}
	f, err := os.Open(args[0]) //nolint:gosec // G304: path is an explicit CLI argument
	if err != nil {
		return nil, args[0], fmt.Errorf("cannot open %s: %w", args[0], err)
	}
	return f, args[0], nil
}

// readInput reads the whole [file|-] argument.
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	r, name, err := openInput(cmd, args)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	b, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}
	if len(b) > maxInputBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, maxInputBytes)
	}
	return b, nil
}
