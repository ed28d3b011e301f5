package cli

import (
	"fmt"

	"splice.dev/splice/internal/runtime"
	"splice.dev/splice/internal/script"
)

// playScript loads the script at path and applies it to the context's
// timeline. A script that names no tracks starts from timeline.tracks
// unnamed ones.
func playScript(ctx *runtime.Context, path string) (*script.Runner, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	if len(s.Tracks) == 0 {
		for i := 0; i < ctx.Config.Timeline.Tracks; i++ {
			s.Tracks = append(s.Tracks, fmt.Sprintf("V%d", i+1))
		}
	}

	ctx.Splog.Debug("playing %s: %d tracks, %d steps", path, len(s.Tracks), len(s.Steps))
	runner := script.NewRunner(ctx.Timeline, ctx.Splog.Logger())
	if err := runner.Run(s); err != nil {
		return runner, fmt.Errorf("%s: %w", path, err)
	}
	ctx.Splog.Info("Applied %d steps from %s.", len(s.Steps), path)
	return runner, nil
}
