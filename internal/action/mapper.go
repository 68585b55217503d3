// Package action maps committed swipes to named ledger operations and
// executes them against the ledger service.
package action

import (
	"sync"

	"ledgerpad/internal/config"
	"ledgerpad/internal/gesture"
)

// Mapper maps swipe sides to action names based on configuration
type Mapper struct {
	mu    sync.RWMutex
	left  string
	right string
}

// NewMapper creates a new action mapper from configuration
func NewMapper(cfg *config.Config) *Mapper {
	return &Mapper{
		left:  cfg.Gesture.SwipeLeft,
		right: cfg.Gesture.SwipeRight,
	}
}

// Map returns the action name for a swipe side, or "" when the side is
// mapped to none.
func (m *Mapper) Map(side gesture.Side) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var name string
	switch side {
	case gesture.SideLeft:
		name = m.left
	case gesture.SideRight:
		name = m.right
	}
	if name == config.ActionNone {
		return ""
	}
	return name
}

// Reload updates the mapper with new configuration
func (m *Mapper) Reload(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.left = cfg.Gesture.SwipeLeft
	m.right = cfg.Gesture.SwipeRight
}
