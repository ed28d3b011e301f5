package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "splice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		c, err := config.Load("")
		require.NoError(t, err)
		require.Equal(t, config.DefaultSnapTolerance, c.Snap.Tolerance)
		require.Equal(t, config.DefaultUndoMaxDepth, c.Undo.MaxDepth)
		require.Equal(t, 0, c.Timeline.Tracks)
		require.Empty(t, c.Log.File)
		require.False(t, c.Log.Debug)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, "snap:\n  tolerance: 4\nundo:\n  max_depth: 5\ntimeline:\n  tracks: 3\nlog:\n  file: /tmp/splice.log\n")
		c, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, 4, c.Snap.Tolerance)
		require.Equal(t, 5, c.Undo.MaxDepth)
		require.Equal(t, 3, c.Timeline.Tracks)
		require.Equal(t, "/tmp/splice.log", c.Log.File)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "snap:\n  tolerance: 4\n")
		t.Setenv("SPLICE_SNAP_TOLERANCE", "7")
		t.Setenv("SPLICE_TIMELINE_TRACKS", "2")
		c, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, 7, c.Snap.Tolerance)
		require.Equal(t, 2, c.Timeline.Tracks)
	})

	t.Run("an explicit missing file is an error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		path := writeConfig(t, "undo:\n  max_depth: -1\n")
		_, err := config.Load(path)
		require.ErrorContains(t, err, "undo.max_depth")
	})
}
