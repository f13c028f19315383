package commands

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/errshape/internal/app"
)

// captureStdout runs fn and returns what it wrote to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = original }()

	fn()

	require.NoError(t, w.Close())
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return string(b)
}

// envelope decodes a success/error envelope with data left raw.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	ErrorCode string          `json:"error_code"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}

// isolateEnv points config, database and engine defaults at temp locations.
func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ERRSHAPE_PRETTY_JSON", "")
	t.Setenv("ERRSHAPE_RESOURCE", "invoice")
	t.Setenv("ERRSHAPE_DEFAULT_TITLE", "Could not save")

	dbPath := filepath.Join(home, "corpus.db")
	app.SetDBPathOverride(dbPath)
	t.Cleanup(func() { app.SetDBPathOverride("") })
	return dbPath
}
