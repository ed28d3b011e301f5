package runtime_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/runtime"
)

func TestGetContext(t *testing.T) {
	t.Run("builds a timeline from the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "splice.yaml")
		require.NoError(t, os.WriteFile(path, []byte("undo:\n  max_depth: 1\n"), 0600))

		var buf bytes.Buffer
		ctx := runtime.WithSettings(context.Background(), runtime.Settings{ConfigPath: path, Writer: &buf})
		c, err := runtime.GetContext(ctx)
		require.NoError(t, err)
		defer func() { require.NoError(t, c.Close()) }()

		require.Equal(t, 1, c.Config.Undo.MaxDepth)
		_, err = c.Timeline.RequestTrackInsertion(-1, true)
		require.NoError(t, err)
		_, err = c.Timeline.RequestTrackInsertion(-1, true)
		require.NoError(t, err)
		require.Equal(t, 1, c.History.Len())

		c.Splog.Info("hello")
		require.Equal(t, "hello\n", buf.String())
	})

	t.Run("a bad config path fails", func(t *testing.T) {
		ctx := runtime.WithSettings(context.Background(), runtime.Settings{ConfigPath: filepath.Join(t.TempDir(), "none.yaml")})
		_, err := runtime.GetContext(ctx)
		require.ErrorContains(t, err, "failed to load config")
	})

	t.Run("settings default to zero", func(t *testing.T) {
		require.Equal(t, runtime.Settings{}, runtime.SettingsFrom(context.Background()))
	})
}
