package tui

import (
	"fmt"
	"sync"
	"time"

	"ledgerpad/internal/gesture"
	"ledgerpad/internal/ledger"
	"ledgerpad/internal/ui"
)

const (
	// pxPerCell converts gesture offsets (logical pixels) to terminal cells.
	pxPerCell = 8

	// frameInterval is the render tick driving eased offset animation.
	frameInterval = 50 * time.Millisecond

	// panelWidth is the width of the revealed action cell, in cells.
	panelWidth = 10
)

// txRow is one swipeable transaction line. Offsets and panel state are
// mutated both from the update loop and from gesture timer goroutines, so
// everything is behind the mutex; rendering takes a snapshot.
type txRow struct {
	mu sync.Mutex
	tx ledger.Transaction

	offset    int
	target    int
	step      int
	animating bool

	swiping    bool
	panelSide  gesture.Side
	panelShown bool
	panelHeld  bool
}

func newTxRow(tx ledger.Transaction) *txRow {
	return &txRow{tx: tx}
}

// ID implements gesture.Row.
func (r *txRow) ID() string {
	return r.tx.ID.String()
}

// SetOffset implements gesture.Row.
func (r *txRow) SetOffset(px int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offset = px
	r.animating = false
}

// AnimateOffset implements gesture.Row. The easing is stepped by the render
// tick: the distance is spread over the frames that fit in d.
func (r *txRow) AnimateOffset(px int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dist := px - r.offset
	if dist == 0 {
		r.animating = false
		return
	}
	frames := int(d / frameInterval)
	if frames < 1 {
		frames = 1
	}
	step := dist / frames
	if step == 0 {
		if dist > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	r.target = px
	r.step = step
	r.animating = true
}

// advance moves one animation frame and reports whether the row is still
// easing.
func (r *txRow) advance() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.animating {
		return false
	}
	r.offset += r.step
	if (r.step > 0 && r.offset >= r.target) || (r.step < 0 && r.offset <= r.target) {
		r.offset = r.target
		r.animating = false
	}
	return r.animating
}

// SetSwiping implements gesture.Row.
func (r *txRow) SetSwiping(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swiping = on
}

// ShowPanel implements gesture.Row.
func (r *txRow) ShowPanel(side gesture.Side) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panelSide = side
	r.panelShown = true
	r.panelHeld = true
}

// HidePanel implements gesture.Row.
func (r *txRow) HidePanel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panelShown = false
}

// RemovePanel implements gesture.Row.
func (r *txRow) RemovePanel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panelShown = false
	r.panelHeld = false
}

type rowSnapshot struct {
	tx         ledger.Transaction
	offset     int
	swiping    bool
	panelSide  gesture.Side
	panelShown bool
}

func (r *txRow) snapshot() rowSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rowSnapshot{
		tx:         r.tx,
		offset:     r.offset,
		swiping:    r.swiping,
		panelSide:  r.panelSide,
		panelShown: r.panelShown,
	}
}

// panelHit reports whether the given column lands inside the revealed action
// cell at the current offset.
func (r *txRow) panelHit(col, width int) bool {
	s := r.snapshot()
	if !s.panelShown {
		return false
	}
	if s.panelSide == gesture.SideLeft {
		return col >= width-panelWidth
	}
	return col < panelWidth
}

// Render draws the row as one terminal line of the given width. The content
// is shifted by the swipe offset; the vacated edge holds the action cell.
func (r *txRow) Render(width int, currency string) string {
	s := r.snapshot()

	content := []rune(renderContent(s.tx, width, currency))
	shift := s.offset / pxPerCell
	if shift > width {
		shift = width
	}
	if shift < -width {
		shift = -width
	}

	var visible string
	var panel string
	switch {
	case shift < 0:
		cut := -shift
		visible = string(content[min(cut, len(content)):])
		if s.panelShown && s.panelSide == gesture.SideLeft {
			panel = ui.ErrorStyle.Render(pad(" DELETE", panelWidth))
			return styleContent(s, pad(visible, width-panelWidth)) + panel
		}
		return styleContent(s, pad(visible, width))
	case shift > 0:
		keep := width - shift
		if keep < 0 {
			keep = 0
		}
		visible = string(content[:min(keep, len(content))])
		if s.panelShown && s.panelSide == gesture.SideRight {
			panel = ui.SubtitleStyle.Render(pad(" EDIT", panelWidth))
			gap := shift - panelWidth
			if gap < 0 {
				gap = 0
			}
			return panel + pad("", gap) + styleContent(s, visible)
		}
		return pad("", shift) + styleContent(s, visible)
	default:
		return styleContent(s, pad(string(content), width))
	}
}

func renderContent(tx ledger.Transaction, width int, currency string) string {
	amount := currency + tx.Amount.StringFixed(2)
	date := tx.Date.Format("Jan 02")

	payeeW := width - len(date) - len(amount) - 20
	if payeeW < 8 {
		payeeW = 8
	}
	category := tx.Category
	if category == "" {
		category = "Uncategorized"
	}
	if len(category) > 14 {
		category = category[:14]
	}

	return fmt.Sprintf("%s  %-*.*s %-14s %12s", date, payeeW, payeeW, tx.Payee, category, amount)
}

func styleContent(s rowSnapshot, text string) string {
	style := ui.ExpenseStyle
	if !s.tx.Expense() {
		style = ui.IncomeStyle
	}
	if s.swiping {
		style = style.Bold(true)
	}
	return style.Render(text)
}

func pad(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + fmt.Sprintf("%*s", width-len(r), "")
}
