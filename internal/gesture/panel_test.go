package gesture

import (
	"testing"
	"time"
)

func TestPanelRevealIdempotent(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Reveal(row, SideLeft)
	m.Reveal(row, SideLeft)

	s := row.snapshot()
	if s.shows != 1 {
		t.Errorf("panel created %d times, want 1", s.shows)
	}
	if !s.panelVisible || s.panelSide != SideLeft {
		t.Errorf("panel visible=%v side=%v, want visible left", s.panelVisible, s.panelSide)
	}
}

func TestPanelRevealSwitchesSide(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Reveal(row, SideRight)

	if got := row.snapshot().panelSide; got != SideRight {
		t.Errorf("panel side = %v, want right", got)
	}
}

func TestPanelHideKeepsNode(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Hide(row)

	s := row.snapshot()
	if !s.hasPanel {
		t.Error("hide destroyed the panel node")
	}
	if s.panelVisible {
		t.Error("panel still visible after hide")
	}
}

func TestPanelResetRemovesOnce(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Reset(row)
	m.Reset(row) // rapid re-reset must not stack a second removal timer
	m.Reset(row)

	if got := row.snapshot().animations; got != 3 {
		t.Errorf("animations = %d, want 3 (every reset eases the row)", got)
	}

	time.Sleep(80 * time.Millisecond)

	s := row.snapshot()
	if s.removes != 1 {
		t.Errorf("panel removed %d times, want exactly 1", s.removes)
	}
	if s.hasPanel {
		t.Error("panel node still present after the removal settled")
	}
}

func TestPanelRevealCancelsPendingRemoval(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 50*time.Millisecond)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Reset(row)
	m.Reveal(row, SideLeft) // re-swipe before the removal fires

	time.Sleep(120 * time.Millisecond)

	s := row.snapshot()
	if s.removes != 0 {
		t.Errorf("panel removed %d times, want 0 (reveal cancels the removal)", s.removes)
	}
	if !s.panelVisible {
		t.Error("panel not visible after re-reveal")
	}
}

func TestPanelResetWithoutPanelStillEases(t *testing.T) {
	row := newFakeRow("1")
	m := NewPanelManager(nil, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Reset(row)

	s := row.snapshot()
	if s.animations != 1 || s.animTarget != 0 {
		t.Errorf("animations=%d target=%d, want one ease to 0", s.animations, s.animTarget)
	}
}

func TestPanelTapDispatchesBySide(t *testing.T) {
	row := newFakeRow("acct-9")

	var deletes, edits []string
	m := NewPanelManager(
		func(id string, _ Row) { deletes = append(deletes, id) },
		func(id string, _ Row) { edits = append(edits, id) },
		30*time.Millisecond,
	)
	defer m.Stop()

	m.Reveal(row, SideLeft)
	m.Tap(row)
	m.Reveal(row, SideRight)
	m.Tap(row)

	if len(deletes) != 1 || deletes[0] != "acct-9" {
		t.Errorf("deletes = %v, want [acct-9]", deletes)
	}
	if len(edits) != 1 || edits[0] != "acct-9" {
		t.Errorf("edits = %v, want [acct-9]", edits)
	}
}

func TestPanelTapOnHiddenPanelDoesNothing(t *testing.T) {
	row := newFakeRow("1")

	called := 0
	m := NewPanelManager(func(string, Row) { called++ }, nil, 30*time.Millisecond)
	defer m.Stop()

	m.Tap(row) // no panel at all
	m.Reveal(row, SideLeft)
	m.Hide(row)
	m.Tap(row) // hidden panel

	if called != 0 {
		t.Errorf("callback invoked %d times, want 0", called)
	}
}

func TestPanelStopRemovesEverythingNow(t *testing.T) {
	rowA := newFakeRow("a")
	rowB := newFakeRow("b")
	m := NewPanelManager(nil, nil, time.Hour)

	m.Reveal(rowA, SideLeft)
	m.Reveal(rowB, SideRight)
	m.Reset(rowA) // removal pending far in the future

	m.Stop()

	if s := rowA.snapshot(); s.hasPanel {
		t.Error("row a panel survived Stop")
	}
	if s := rowB.snapshot(); s.hasPanel {
		t.Error("row b panel survived Stop")
	}
}
