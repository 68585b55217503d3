// Package gesture implements swipe-to-reveal action handling for rows of a
// host view: a horizontal drag on a row slides it aside and exposes a
// contextual affordance (delete on a leftward swipe, edit on a rightward
// one). Gesture handling is only active while the viewport is compact; the
// controller attaches and detaches its touch source as the viewport crosses
// the configured breakpoint.
package gesture

import (
	"fmt"
	"sync"
)

// Controller composes the viewport monitor, the gesture tracker and the
// panel manager. All touch state is owned here: at most one row is active at
// a time, and starting a gesture on another row resets the previous one
// first.
type Controller struct {
	host   Host
	source Source
	cfg    Config

	monitor  *Monitor
	panels   *PanelManager
	throttle *Throttler

	mu        sync.Mutex
	track     tracker
	active    Row
	touching  bool
	attached  bool
	destroyed bool
}

// New creates a controller. It fails fast when the row selector is missing,
// since the controller has no meaningful behavior without one. Construction
// has no observable side effects; call Start to perform the initial viewport
// evaluation and acquire the touch source if the viewport is compact.
func New(host Host, source Source, cfg Config) (*Controller, error) {
	if cfg.Selector == "" {
		return nil, fmt.Errorf("gesture: row selector is required")
	}
	if host == nil {
		return nil, fmt.Errorf("gesture: host is required")
	}
	if source == nil {
		return nil, fmt.Errorf("gesture: source is required")
	}
	cfg.applyDefaults()

	c := &Controller{
		host:     host,
		source:   source,
		cfg:      cfg,
		panels:   NewPanelManager(cfg.OnDelete, cfg.OnEdit, cfg.SettleDuration),
		throttle: NewThrottler(cfg.MoveSampleInterval),
	}
	c.monitor = NewMonitor(cfg.CompactMaxWidth, NewDebouncer(cfg.ResizeSettle), c.onViewportChange)
	return c, nil
}

// Start evaluates the viewport immediately and attaches the touch source if
// it is compact.
func (c *Controller) Start(width int) {
	c.monitor.Evaluate(width)
}

// Resize feeds a viewport resize signal into the debounced re-evaluation.
func (c *Controller) Resize(width int) {
	c.mu.Lock()
	destroyed := c.destroyed
	c.mu.Unlock()
	if destroyed {
		return
	}
	c.monitor.Observe(width)
}

// Compact reports whether the viewport is currently compact.
func (c *Controller) Compact() bool {
	return c.monitor.Compact()
}

// Attached reports whether the touch source is currently attached.
func (c *Controller) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached
}

// ActiveID returns the identifier of the row currently mid-gesture or
// resting revealed, or "" when none is.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return ""
	}
	return c.active.ID()
}

// Revealed reports whether the active row is resting with a visible panel,
// and which side it is anchored to.
func (c *Controller) Revealed() (Side, bool) {
	c.mu.Lock()
	row := c.active
	c.mu.Unlock()
	if row == nil {
		return 0, false
	}
	return c.panels.Revealed(row)
}

// TouchStart begins tracking the row under the touch point. Points outside
// any swipeable row are ignored. If another row is still active it is fully
// reset first; a repeat start on the active row itself is a fresh start.
func (c *Controller) TouchStart(x, y int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed || !c.attached {
		return
	}
	row := c.host.RowAt(c.cfg.Selector, x, y)
	if row == nil {
		return
	}
	if c.active != nil {
		c.resetActiveLocked()
	}
	c.active = row
	c.touching = true
	c.track.begin(x)
	c.throttle.Reset()
	row.SetSwiping(true)
}

// TouchMove consumes a move sample. Samples outside a live contact are
// no-ops: a committed row resting with its panel revealed must not be
// disturbed by pointer movement between TouchEnd and the next TouchStart.
// Samples inside the throttle window are dropped (first sample of each
// window wins). It returns true once the gesture has registered swipe
// intent, meaning the host should suppress default scroll handling.
func (c *Controller) TouchMove(x int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed || !c.attached || !c.touching || c.active == nil {
		return false
	}
	if !c.throttle.Allow() {
		return c.track.swiping
	}

	diff := c.track.sample(x)
	if !c.track.swiping {
		return false
	}

	c.active.SetOffset(clampOffset(diff))
	if abs(diff) > c.cfg.Threshold {
		c.panels.Reveal(c.active, sideFor(diff))
	} else {
		c.panels.Hide(c.active)
	}
	return true
}

// TouchEnd finishes the gesture. Without registered swipe intent the touch
// was a tap or scroll: the row is merely unmarked, with no animation. A
// swipe below the threshold eases the row back to rest and schedules the
// panel for removal; at or above the threshold the row rests at the reveal
// offset with the panel interactive, and stays active until tapped or until
// another gesture starts.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed || !c.attached || !c.touching || c.active == nil {
		return
	}
	c.touching = false

	row := c.active
	if !c.track.swiping {
		row.SetSwiping(false)
		c.active = nil
		return
	}

	diff := c.track.diff()
	c.track.swiping = false
	row.SetSwiping(false)

	if abs(diff) >= c.cfg.Threshold {
		rest := c.cfg.Threshold
		if diff < 0 {
			rest = -rest
		}
		c.panels.Reveal(row, sideFor(diff))
		row.AnimateOffset(rest, c.cfg.SettleDuration)
		return
	}

	c.panels.Reset(row)
	c.active = nil
}

// TapAction dispatches a tap on the revealed affordance of the active row,
// then fully resets the row and clears the active slot so a new gesture can
// begin immediately. Missing callbacks are not an error; the row still
// resets.
func (c *Controller) TapAction() {
	c.mu.Lock()
	row := c.active
	if c.destroyed || row == nil {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.panels.Tap(row)

	c.mu.Lock()
	if c.active == row {
		c.resetActiveLocked()
	}
	c.mu.Unlock()
}

// Destroy synchronously detaches the touch source, cancels all pending
// timers and force-resets any active row. No timers fire after Destroy
// returns.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	if c.attached {
		c.source.Detach()
		c.attached = false
	}
	if c.active != nil {
		c.active.SetSwiping(false)
		c.active.SetOffset(0)
		c.active = nil
	}
	c.touching = false
	c.mu.Unlock()

	c.monitor.Stop()
	c.panels.Stop()
}

// onViewportChange runs on compact-state transitions. Attaching twice is a
// no-op; detaching force-resets any in-flight gesture, since a gesture must
// never persist across a mode change.
func (c *Controller) onViewportChange(compact bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	if compact {
		if c.attached {
			return
		}
		c.source.Attach(c)
		c.attached = true
		return
	}
	if !c.attached {
		return
	}
	c.source.Detach()
	c.attached = false
	c.resetActiveLocked()
}

// resetActiveLocked commits-and-releases the active row: eased back to rest,
// panel scheduled for removal, session state discarded. Callers hold c.mu.
func (c *Controller) resetActiveLocked() {
	row := c.active
	if row == nil {
		return
	}
	c.panels.Reset(row)
	row.SetSwiping(false)
	c.active = nil
	c.touching = false
	c.track.swiping = false
}
