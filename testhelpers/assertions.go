// Package testhelpers provides testing utilities for the splice timeline,
// including fluent scenarios and state assertions.
package testhelpers

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"splice.dev/splice/internal/timeline"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectTrackLayout asserts the items of a track as "id@position+playtime"
// entries joined by ", ", in position order.
func ExpectTrackLayout(t *testing.T, tl *timeline.Timeline, trackID int, expected string) {
	t.Helper()

	var parts []string
	for _, id := range tl.TrackItems(trackID) {
		parts = append(parts, fmt.Sprintf("%d@%d+%d", id, tl.ItemPosition(id), tl.ItemPlaytime(id)))
	}
	require.Equal(t, expected, strings.Join(parts, ", "), "Layout of track %d does not match", trackID)
}

// ExpectSameState asserts that two snapshots describe the same timeline
func ExpectSameState(t *testing.T, expected, actual timeline.State) {
	t.Helper()
	require.Equal(t, expected, actual, "Timeline state does not match")
}

// ExpectGroupMembers asserts the direct members of a group, ignoring order
func ExpectGroupMembers(t *testing.T, tl *timeline.Timeline, groupID int, expected []int) {
	t.Helper()

	actual := slices.Clone(tl.GroupElements(groupID))
	expected = slices.Clone(expected)
	slices.Sort(actual)
	slices.Sort(expected)
	require.Equal(t, expected, actual, "Members of group %d do not match", groupID)
}
