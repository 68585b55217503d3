package gesture

import (
	"fmt"
	"time"
)

// Side identifies the direction of a committed swipe. A leftward swipe
// reveals the delete affordance on the row's right edge; a rightward swipe
// reveals the edit affordance on the left edge.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Action is invoked when the user taps a revealed panel affordance.
// It receives the row's stable identifier and the row handle.
type Action func(id string, row Row)

// Row is one swipeable row of the host view. Implementations must tolerate
// offset and panel mutations arriving from timer goroutines.
type Row interface {
	// ID returns the row's stable identifier.
	ID() string

	// SetOffset applies a horizontal offset immediately, without animation.
	SetOffset(px int)

	// AnimateOffset eases the row to the given offset over d.
	AnimateOffset(px int, d time.Duration)

	// SetSwiping toggles the non-destructive "being swiped" visual hint.
	SetSwiping(on bool)

	// ShowPanel ensures the action panel for the given side exists and is
	// visible. Calling it again for the same side is a no-op.
	ShowPanel(side Side)

	// HidePanel hides the panel without destroying it.
	HidePanel()

	// RemovePanel destroys the panel entirely.
	RemovePanel()
}

// Host resolves touch points to swipeable rows.
type Host interface {
	// RowAt returns the row matching selector that contains the given
	// point, or nil if the point lands outside any swipeable row.
	RowAt(selector string, x, y int) Row
}

// Handler consumes raw touch signals. TouchMove reports whether the sample
// was consumed by an in-progress swipe, in which case the host should
// suppress its default scroll handling for the gesture.
type Handler interface {
	TouchStart(x, y int)
	TouchMove(x int) bool
	TouchEnd()
}

// Source delivers touch signals to a Handler while attached. Attach and
// Detach must be idempotent from the source's point of view; the controller
// guards its own side as well.
type Source interface {
	Attach(h Handler)
	Detach()
}

// Defaults for Config fields left at their zero value.
const (
	DefaultThreshold          = 80
	DefaultCompactMaxWidth    = 767
	DefaultMoveSampleInterval = 16 * time.Millisecond
	DefaultResizeSettle       = 150 * time.Millisecond
	DefaultSettleDuration     = 300 * time.Millisecond
)

// Fixed tracking constants: the displacement before a touch counts as a
// deliberate swipe rather than tap jitter, and the clamp on the applied
// offset regardless of how far the pointer travels.
const (
	intentThreshold = 10
	maxOffset       = 150
)

// Config is the controller's construction-time configuration. It is not
// mutated after New.
type Config struct {
	// Selector identifies which host elements are swipeable rows. Required.
	Selector string

	// Threshold is the horizontal displacement, in logical pixels, that
	// commits a swipe.
	Threshold int

	// MoveSampleInterval throttles move samples: the first sample in each
	// window is kept, later ones are dropped.
	MoveSampleInterval time.Duration

	// ResizeSettle is the debounce applied to viewport re-evaluation.
	ResizeSettle time.Duration

	// SettleDuration is how long rows take to ease back to rest, and how
	// long a hidden panel lingers before removal.
	SettleDuration time.Duration

	// CompactMaxWidth is the widest viewport still considered compact.
	// Gesture handling is active only in compact viewports.
	CompactMaxWidth int

	// OnDelete and OnEdit handle taps on the revealed affordances. Either
	// may be nil, in which case the tap still resets the row.
	OnDelete Action
	OnEdit   Action
}

func (c *Config) applyDefaults() {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.MoveSampleInterval == 0 {
		c.MoveSampleInterval = DefaultMoveSampleInterval
	}
	if c.ResizeSettle == 0 {
		c.ResizeSettle = DefaultResizeSettle
	}
	if c.SettleDuration == 0 {
		c.SettleDuration = DefaultSettleDuration
	}
	if c.CompactMaxWidth == 0 {
		c.CompactMaxWidth = DefaultCompactMaxWidth
	}
}
