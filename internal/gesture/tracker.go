package gesture

// tracker holds the session state of a single in-progress touch: the start
// and most recent horizontal coordinates, and whether displacement has
// crossed the intent threshold that separates a deliberate swipe from tap or
// scroll jitter.
type tracker struct {
	startX   int
	currentX int
	swiping  bool
}

// begin starts a fresh session at the given coordinate.
func (t *tracker) begin(x int) {
	t.startX = x
	t.currentX = x
	t.swiping = false
}

// sample records a move coordinate and returns the displacement from the
// session start. Crossing the intent threshold latches the swiping flag for
// the rest of the session.
func (t *tracker) sample(x int) int {
	t.currentX = x
	diff := t.diff()
	if abs(diff) > intentThreshold {
		t.swiping = true
	}
	return diff
}

// diff returns the displacement of the most recent accepted sample.
func (t *tracker) diff() int {
	return t.currentX - t.startX
}

// clampOffset limits the applied visual offset so the row never runs away
// from the pointer.
func clampOffset(diff int) int {
	if diff > maxOffset {
		return maxOffset
	}
	if diff < -maxOffset {
		return -maxOffset
	}
	return diff
}

// sideFor classifies a displacement: negative is a leftward swipe, positive
// a rightward one.
func sideFor(diff int) Side {
	if diff < 0 {
		return SideLeft
	}
	return SideRight
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
