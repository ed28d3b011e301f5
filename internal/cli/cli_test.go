package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/cli"
)

const session = `
tracks: [V1, V2, V3]
steps:
  - op: insert-clip
    name: A
    track: V2
    at: 0
    length: 50
  - op: insert-clip
    name: B
    track: V2
    at: 50
    length: 30
  - op: group
    name: AB
    items: [A, B]
  - op: move
    item: A
    track: V3
    at: 10
  - op: undo
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	cmd := cli.NewRootCmd("1.2.3", "abc123", "today")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestPlayCommand(t *testing.T) {
	t.Run("prints the resulting timeline", func(t *testing.T) {
		path := writeScript(t, session)
		out, err := execute(t, "play", path)
		require.NoError(t, err)
		require.Contains(t, out, "Applied 5 steps")
		require.Contains(t, out, "  V2 A[0,50) B[50,80)\n")
		require.Contains(t, out, "◯ AB\n│  A\n│  B\n")
	})

	t.Run("quiet still prints nothing but errors", func(t *testing.T) {
		path := writeScript(t, session)
		out, err := execute(t, "play", "--quiet", path)
		require.NoError(t, err)
		require.NotContains(t, out, "Applied")
	})

	t.Run("stats lists request counters", func(t *testing.T) {
		path := writeScript(t, session)
		out, err := execute(t, "play", "--stats", path)
		require.NoError(t, err)
		require.Contains(t, out, "splice_timeline_requests_total{op=move,result=success} 1")
		require.Contains(t, out, "splice_timeline_requests_total{op=undo,result=success} 1")
	})

	t.Run("a failing step is reported", func(t *testing.T) {
		path := writeScript(t, "tracks: [V1]\nsteps:\n  - op: move\n    item: ghost\n    track: V1\n")
		_, err := execute(t, "play", path)
		require.ErrorContains(t, err, `unknown name "ghost"`)
	})

	t.Run("configured tracks back scripts without tracks", func(t *testing.T) {
		config := writeScript(t, "timeline:\n  tracks: 2\n")
		path := writeScript(t, "steps:\n  - op: insert-clip\n    name: A\n    track: V2\n    at: 5\n    length: 10\n")
		out, err := execute(t, "play", "--config", config, path)
		require.NoError(t, err)
		require.Contains(t, out, "  V1\n  V2 A[5,15)\n")
	})

	t.Run("requires a script", func(t *testing.T) {
		_, err := execute(t, "play")
		require.Error(t, err)
	})
}

func TestHistoryCommand(t *testing.T) {
	path := writeScript(t, session)
	out, err := execute(t, "history", path)
	require.NoError(t, err)
	require.Contains(t, out, "◉   1 Insert Clip\n◉   2 Insert Clip\n◉   3 Group clips\n◯   4 Move group\n")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "splice 1.2.3 (commit abc123, built today)\n", out)
}

func TestBrowseCommandNonInteractive(t *testing.T) {
	t.Setenv("SPLICE_TEST_NO_INTERACTIVE", "1")
	path := writeScript(t, session)
	_, err := execute(t, "browse", path)
	require.ErrorContains(t, err, "interactive views are disabled")
}
