package gesture

import "sync"

// Monitor decides, from the viewport width, whether gesture handling should
// be active. Resize signals are debounced so a burst collapses into one
// trailing re-evaluation using the width of the last signal.
type Monitor struct {
	compactMax int
	debounce   *Debouncer
	onChange   func(compact bool)

	mu      sync.Mutex
	width   int
	compact bool
}

// NewMonitor creates a monitor. onChange fires only when the compact state
// actually transitions.
func NewMonitor(compactMax int, debounce *Debouncer, onChange func(compact bool)) *Monitor {
	return &Monitor{
		compactMax: compactMax,
		debounce:   debounce,
		onChange:   onChange,
	}
}

// Evaluate applies the given width immediately. Used on startup; resize
// signals go through Observe instead.
func (m *Monitor) Evaluate(width int) {
	m.mu.Lock()
	m.width = width
	compact := width <= m.compactMax
	changed := compact != m.compact
	m.compact = compact
	cb := m.onChange
	m.mu.Unlock()

	if changed && cb != nil {
		cb(compact)
	}
}

// Observe records a resize signal and schedules a debounced re-evaluation.
func (m *Monitor) Observe(width int) {
	m.mu.Lock()
	m.width = width
	m.mu.Unlock()

	m.debounce.Call(func() {
		m.mu.Lock()
		w := m.width
		m.mu.Unlock()
		m.Evaluate(w)
	})
}

// Compact reports the current compact state.
func (m *Monitor) Compact() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compact
}

// Width returns the most recently observed width.
func (m *Monitor) Width() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width
}

// Stop cancels any pending re-evaluation.
func (m *Monitor) Stop() {
	m.debounce.Stop()
}
