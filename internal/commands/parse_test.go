package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/errshape/internal/actions"
	"github.com/dotcommander/errshape/pkg/errshape"
)

func TestParseCmd_Stdin(t *testing.T) {
	isolateEnv(t)
	cmd := NewParseCmd()
	cmd.SetIn(strings.NewReader(`{"message":"Network timeout"}`))

	out := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, nil))
	})
	env := decodeEnvelope(t, out)
	require.True(t, env.Success)

	var p errshape.ParsedError
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.Equal(t, "Could not save", p.ToastTitle)
	require.Equal(t, "Network timeout", p.ToastDescription)
	require.Equal(t, errshape.OriginGeneric, p.Origin)
}

func TestParseCmd_JSONLines(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "batch.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("\"a\"\n\"a\"\n\"b\"\n"), 0o600))

	cmd := NewParseCmd()
	require.NoError(t, cmd.Flags().Set("jsonl", "true"))

	out := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{path}))
	})
	env := decodeEnvelope(t, out)
	require.True(t, env.Success)

	var res actions.BatchResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Equal(t, 3, res.Total)
	require.Equal(t, 1, res.CacheHits)
}

func TestParseCmd_MissingFileIsPrintedError(t *testing.T) {
	isolateEnv(t)
	cmd := NewParseCmd()

	var err error
	out := captureStdout(t, func() {
		err = cmd.RunE(cmd, []string{filepath.Join(t.TempDir(), "missing.json")})
	})
	require.Error(t, err)
	require.IsType(t, printedError{}, err)

	env := decodeEnvelope(t, out)
	require.False(t, env.Success)
	require.Contains(t, env.Error, "cannot open")
}

func TestExtractCmd(t *testing.T) {
	isolateEnv(t)
	cmd := NewExtractCmd()
	cmd.SetIn(strings.NewReader(`{"Message":"Tax rate inactive","ErrorNumber":10,"Type":"ValidationError"}`))

	out := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, nil))
	})
	env := decodeEnvelope(t, out)

	var r struct {
		Message             string `json:"message"`
		IsConnectorSpecific bool   `json:"isConnectorSpecific"`
		Found               bool   `json:"found"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &r))
	require.Equal(t, "Tax rate inactive", r.Message)
	require.True(t, r.Found)
}

func TestPathCmd_NotAPath(t *testing.T) {
	isolateEnv(t)
	cmd := NewPathCmd()

	out := captureStdout(t, func() {
		require.NoError(t, cmd.RunE(cmd, []string{"Amount is required"}))
	})
	env := decodeEnvelope(t, out)
	require.JSONEq(t, `{"raw":"Amount is required","resource":"invoice","is_path":false,"segments":null}`, string(env.Data))
}
