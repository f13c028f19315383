package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/errshape/internal/models"
)

func TestNewSampleCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := NewSampleCmd()
	require.Equal(t, "sample", cmd.Use)

	for _, name := range []string{"add", "get", "list", "delete", "replay", "stats"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
}

func TestSampleGetCmd_ValidationErrorsBeforeDB(t *testing.T) {
	cmd := newSampleGetCmd()

	var err error
	captureStdout(t, func() { err = cmd.RunE(cmd, nil) })
	require.Error(t, err)
	require.IsType(t, printedError{}, err)

	require.NoError(t, cmd.Flags().Set("id", "one"))
	captureStdout(t, func() { err = cmd.RunE(cmd, []string{"two"}) })
	require.Error(t, err)
	require.IsType(t, printedError{}, err)
}

func TestSampleListCmd_RejectsUnknownOrigin(t *testing.T) {
	cmd := newSampleListCmd()
	require.NoError(t, cmd.Flags().Set("origin", "bogus"))

	var err error
	out := captureStdout(t, func() { err = cmd.RunE(cmd, nil) })
	require.IsType(t, printedError{}, err)
	require.Contains(t, decodeEnvelope(t, out).Error, "unknown origin")
}

func TestSampleCommands_AddGetDelete(t *testing.T) {
	isolateEnv(t)

	add := newSampleAddCmd()
	add.SetIn(strings.NewReader(`{"Elements":[{"Message":"Contact required"}]}`))
	out := captureStdout(t, func() {
		require.NoError(t, add.RunE(add, nil))
	})
	env := decodeEnvelope(t, out)
	require.True(t, env.Success)

	var added struct {
		Sample  models.Sample `json:"sample"`
		Created bool          `json:"created"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &added))
	require.True(t, added.Created)
	require.Equal(t, "invoice", added.Sample.Resource)
	require.Equal(t, "Could not save", added.Sample.DefaultTitle)
	require.Equal(t, "Contact required", added.Sample.Result.ToastDescription)

	get := newSampleGetCmd()
	out = captureStdout(t, func() {
		require.NoError(t, get.RunE(get, []string{added.Sample.ID}))
	})
	require.True(t, decodeEnvelope(t, out).Success)

	del := newSampleDeleteCmd()
	out = captureStdout(t, func() {
		require.NoError(t, del.RunE(del, []string{added.Sample.ID}))
	})
	require.True(t, decodeEnvelope(t, out).Success)

	var err error
	out = captureStdout(t, func() { err = get.RunE(get, []string{added.Sample.ID}) })
	require.IsType(t, printedError{}, err)
	env = decodeEnvelope(t, out)
	require.False(t, env.Success)
	require.Equal(t, "SAMPLE_NOT_FOUND", env.ErrorCode)
}

func TestSampleReplayAndStatsCmd(t *testing.T) {
	isolateEnv(t)

	replay := newSampleReplayCmd()
	out := captureStdout(t, func() {
		require.NoError(t, replay.RunE(replay, nil))
	})
	var report models.ReplayReport
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, out).Data, &report))
	require.Zero(t, report.Run.Total)

	stats := newSampleStatsCmd()
	out = captureStdout(t, func() {
		require.NoError(t, stats.RunE(stats, nil))
	})
	var s struct {
		Total      int `json:"total"`
		LastReplay *struct {
			ID string `json:"id"`
		} `json:"last_replay"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, out).Data, &s))
	require.Zero(t, s.Total)
	require.NotNil(t, s.LastReplay)
	require.Equal(t, report.Run.ID, s.LastReplay.ID)
}
