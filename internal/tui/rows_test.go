package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ledgerpad/internal/action"
	"ledgerpad/internal/config"
	"ledgerpad/internal/gesture"
	"ledgerpad/internal/ledger"
)

func testTx(payee string, amount int64) ledger.Transaction {
	return ledger.Transaction{
		ID:       uuid.New(),
		Date:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Payee:    payee,
		Category: "Groceries",
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestRowAnimateAdvancesToTarget(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.SetOffset(-80)

	r.AnimateOffset(0, 4*frameInterval)

	steps := 0
	for r.advance() {
		steps++
		if steps > 20 {
			t.Fatal("animation never settled")
		}
	}

	if got := r.snapshot().offset; got != 0 {
		t.Errorf("offset after animation = %d, want 0", got)
	}
	if steps < 2 {
		t.Errorf("animation settled in %d steps, want several", steps+1)
	}
}

func TestRowAnimateShortDistanceStillMoves(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.SetOffset(-2)

	r.AnimateOffset(0, 10*frameInterval)
	for r.advance() {
	}

	if got := r.snapshot().offset; got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}
}

func TestRowSetOffsetCancelsAnimation(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.AnimateOffset(-80, 4*frameInterval)

	r.SetOffset(-150)

	if r.advance() {
		t.Error("advance() = true after SetOffset, want animation cancelled")
	}
	if got := r.snapshot().offset; got != -150 {
		t.Errorf("offset = %d, want -150", got)
	}
}

func TestRowRenderLeftSwipeShowsDeleteCell(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.SetOffset(-80)
	r.ShowPanel(gesture.SideLeft)

	line := r.Render(60, "$")
	if !strings.Contains(line, "DELETE") {
		t.Errorf("rendered line missing delete cell:\n%q", line)
	}
}

func TestRowRenderRightSwipeShowsEditCell(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.SetOffset(80)
	r.ShowPanel(gesture.SideRight)

	line := r.Render(60, "$")
	if !strings.Contains(line, "EDIT") {
		t.Errorf("rendered line missing edit cell:\n%q", line)
	}
}

func TestRowRenderHiddenPanelShowsNoCell(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.SetOffset(-80)
	r.ShowPanel(gesture.SideLeft)
	r.HidePanel()

	line := r.Render(60, "$")
	if strings.Contains(line, "DELETE") {
		t.Errorf("hidden panel still rendered:\n%q", line)
	}
}

func TestRowRenderRestIncludesAmount(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))

	line := r.Render(60, "$")
	if !strings.Contains(line, "$-12.00") {
		t.Errorf("rendered line missing amount:\n%q", line)
	}
	if !strings.Contains(line, "Corner Market") {
		t.Errorf("rendered line missing payee:\n%q", line)
	}
}

func TestPanelHit(t *testing.T) {
	r := newTxRow(testTx("Corner Market", -12))
	r.ShowPanel(gesture.SideLeft)

	if !r.panelHit(55, 60) {
		t.Error("panelHit(right edge) = false, want true for left-side reveal")
	}
	if r.panelHit(5, 60) {
		t.Error("panelHit(left edge) = true, want false for left-side reveal")
	}

	r.ShowPanel(gesture.SideRight)
	if !r.panelHit(5, 60) {
		t.Error("panelHit(left edge) = false, want true for right-side reveal")
	}

	r.RemovePanel()
	if r.panelHit(55, 60) {
		t.Error("panelHit = true after RemovePanel")
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	cfg := &config.Config{
		Gesture: config.GestureConfig{
			RowSelector: "transaction-row",
			SwipeLeft:   config.ActionDelete,
			SwipeRight:  config.ActionEdit,
		},
		UI: config.UIConfig{Currency: "$"},
	}
	m, err := New(context.Background(), cfg, nil, nil, action.NewMapper(cfg), "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(m.ctrl.Destroy)
	m.width = 60
	m.height = 20
	return m
}

func TestRowAtResolvesListLine(t *testing.T) {
	m := testModel(t)
	m.setTransactions([]ledger.Transaction{
		testTx("First", -10),
		testTx("Second", -20),
	})

	row := m.RowAt("transaction-row", 10, rowsTop+1)
	if row == nil {
		t.Fatal("RowAt() = nil for a valid list line")
	}
	if row.ID() != m.rows[1].ID() {
		t.Errorf("RowAt() resolved %s, want second row", row.ID())
	}
}

func TestRowAtRejectsForeignSelector(t *testing.T) {
	m := testModel(t)
	m.setTransactions([]ledger.Transaction{testTx("First", -10)})

	if row := m.RowAt("other-row", 10, rowsTop); row != nil {
		t.Error("RowAt() should return nil for a selector it does not serve")
	}
}

func TestRowAtOutsideListIsNil(t *testing.T) {
	m := testModel(t)
	m.setTransactions([]ledger.Transaction{testTx("First", -10)})

	if row := m.RowAt("transaction-row", 10, 0); row != nil {
		t.Error("RowAt() should return nil above the list")
	}
	if row := m.RowAt("transaction-row", 10, rowsTop+5); row != nil {
		t.Error("RowAt() should return nil below the last row")
	}
}
