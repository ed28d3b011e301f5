package timeline

// RequestBestSnapPos returns where an item of the given length dragged to pos
// should land so that its start or its end meets the closest snap point. The
// points in ignored are hidden while searching. It reports false when neither
// boundary has a point within the snap tolerance; on equal distances the start
// wins.
func (t *Timeline) RequestBestSnapPos(pos, length int, ignored []int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bestSnapPos(pos, length, ignored)
}

// RequestNextSnapPos returns the first snap point strictly after pos
func (t *Timeline) RequestNextSnapPos(pos int) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snaps.NextPoint(pos)
}

// RequestPreviousSnapPos returns the last snap point strictly before pos
func (t *Timeline) RequestPreviousSnapPos(pos int) (int, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snaps.PreviousPoint(pos)
}

func (t *Timeline) bestSnapPos(pos, length int, ignored []int) (int, bool) {
	if len(ignored) > 0 {
		t.snaps.Ignore(ignored)
		defer t.snaps.UnIgnore()
	}

	start, hasStart := t.snaps.ClosestPoint(pos)
	end, hasEnd := t.snaps.ClosestPoint(pos + length)
	startDiff := abs(pos - start)
	endDiff := abs(pos + length - end)

	switch {
	case hasStart && (!hasEnd || startDiff <= endDiff):
		if startDiff <= t.snapTolerance {
			return start, true
		}
	case hasEnd:
		if endDiff <= t.snapTolerance {
			return end - length, true
		}
	}
	return 0, false
}
