package gesture

import (
	"sync"
	"time"
)

// panelState tracks one row's action panel between reveal and removal.
type panelState struct {
	row     Row
	side    Side
	visible bool
	removal *time.Timer
}

// PanelManager owns the lifecycle of action panels: lazy creation on first
// reveal, cheap hide/show while the pointer crosses the threshold, and
// removal a settle-duration after the row resets. Panels are keyed by row ID
// so every creation path has a matching removal path.
type PanelManager struct {
	onDelete Action
	onEdit   Action
	settle   time.Duration

	mu     sync.Mutex
	panels map[string]*panelState
}

// NewPanelManager creates a panel manager dispatching taps to the given
// callbacks. Either callback may be nil.
func NewPanelManager(onDelete, onEdit Action, settle time.Duration) *PanelManager {
	return &PanelManager{
		onDelete: onDelete,
		onEdit:   onEdit,
		settle:   settle,
		panels:   make(map[string]*panelState),
	}
}

// Reveal shows the panel for the given side, creating it on first use.
// Revealing again while already visible on the same side is a no-op, and a
// reveal cancels any removal pending from an earlier reset.
func (m *PanelManager) Reveal(row Row, side Side) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.panels[row.ID()]
	if !ok {
		ps = &panelState{row: row}
		m.panels[row.ID()] = ps
	}
	if ps.removal != nil {
		ps.removal.Stop()
		ps.removal = nil
	}
	if ps.visible && ps.side == side {
		return
	}
	ps.side = side
	ps.visible = true
	row.ShowPanel(side)
}

// Hide removes the panel's visible state without destroying it, since the
// pointer may re-cross the threshold within the same gesture.
func (m *PanelManager) Hide(row Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.panels[row.ID()]
	if !ok || !ps.visible {
		return
	}
	ps.visible = false
	row.HidePanel()
}

// Reset eases the row back to rest, hides its panel, and schedules the panel
// node for removal once the settle animation has finished. Repeated resets
// reuse the pending removal rather than stacking timers.
func (m *PanelManager) Reset(row Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row.AnimateOffset(0, m.settle)

	ps, ok := m.panels[row.ID()]
	if !ok {
		return
	}
	if ps.visible {
		ps.visible = false
		row.HidePanel()
	}
	if ps.removal == nil {
		id := row.ID()
		ps.removal = time.AfterFunc(m.settle, func() {
			m.remove(id)
		})
	}
}

// Tap dispatches the configured callback for the row's revealed side. A tap
// on a row without a visible panel, or a side with no configured callback,
// is silently dropped.
func (m *PanelManager) Tap(row Row) {
	m.mu.Lock()
	ps, ok := m.panels[row.ID()]
	if !ok || !ps.visible {
		m.mu.Unlock()
		return
	}
	var cb Action
	switch ps.side {
	case SideLeft:
		cb = m.onDelete
	case SideRight:
		cb = m.onEdit
	}
	m.mu.Unlock()

	if cb != nil {
		cb(row.ID(), row)
	}
}

// Revealed reports whether the row currently has a visible panel, and on
// which side.
func (m *PanelManager) Revealed(row Row) (Side, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.panels[row.ID()]
	if !ok || !ps.visible {
		return 0, false
	}
	return ps.side, true
}

// Stop cancels all pending removals and tears down every panel immediately.
func (m *PanelManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ps := range m.panels {
		if ps.removal != nil {
			ps.removal.Stop()
		}
		ps.row.RemovePanel()
		delete(m.panels, id)
	}
}

func (m *PanelManager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, ok := m.panels[id]
	if !ok {
		return
	}
	delete(m.panels, id)
	ps.row.RemovePanel()
}
