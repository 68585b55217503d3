// Package tui renders the ledger's transaction list as a swipeable panel.
// Mouse and digitizer input is translated into touch signals for the gesture
// controller; committed swipes surface delete and edit affordances inline.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ledgerpad/internal/action"
	"ledgerpad/internal/config"
	"ledgerpad/internal/gesture"
	"ledgerpad/internal/ledger"
	"ledgerpad/internal/touch"
	"ledgerpad/internal/ui"
	"ledgerpad/internal/upload"
)

// rowsTop is the line the first transaction row renders on: title, status
// and column header come first.
const rowsTop = 3

// inputSource adapts the update loop to gesture.Source: the controller
// attaches here while the viewport is compact, and mouse/digitizer events
// are forwarded to whatever handler is attached.
type inputSource struct {
	mu      sync.Mutex
	handler gesture.Handler
}

func (s *inputSource) Attach(h gesture.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *inputSource) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
}

func (s *inputSource) active() gesture.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// actionRequest is a queued affordance tap, drained synchronously in Update.
type actionRequest struct {
	name string
	id   string
}

// TouchMsg carries one digitizer event into the update loop. Coordinates are
// still in device units; the model scales them to the terminal grid.
type TouchMsg struct {
	Event touch.Event
}

// Messages produced by commands
type (
	txLoadedMsg   struct{ txs []ledger.Transaction }
	groupsMsg     struct{ groups []string }
	errMsg        struct{ err error }
	actionDoneMsg struct{ id string }
	updatedMsg    struct{ id string }
	frameTickMsg  time.Time
	uploadDoneMsg struct {
		status upload.Status
		err    error
	}
)

// Model is the Bubble Tea model for the ledger panel. It doubles as the
// gesture host: RowAt resolves touch points to transaction rows.
type Model struct {
	cfg    *config.Config
	client *ledger.Client
	poller *upload.Poller
	mapper *action.Mapper
	disp   *action.Dispatcher

	ctrl   *gesture.Controller
	source *inputSource

	ctx    context.Context
	cancel context.CancelFunc

	rows   []*txRow
	txs    []ledger.Transaction
	groups []string
	group  string

	width     int
	height    int
	mouseDown bool

	showSummary bool
	summary     table.Model

	showGroups  bool
	groupCursor int

	editing   bool
	editID    string
	editInput textinput.Model

	uploadID     string
	uploadStatus *upload.Status
	statusCh     chan upload.Status

	pending chan actionRequest

	loading bool
	err     error
	notice  string
}

// New builds the panel model and its gesture controller. Background work
// (fetches, the upload watch) runs under a context derived from ctx, so
// cancelling it or quitting the panel stops every in-flight request. The
// upload ID is optional; when set, the model follows that upload's import
// progress in the status line.
func New(ctx context.Context, cfg *config.Config, client *ledger.Client, poller *upload.Poller, mapper *action.Mapper, uploadID string) (*Model, error) {
	mctx, cancel := context.WithCancel(ctx)
	m := &Model{
		ctx:      mctx,
		cancel:   cancel,
		cfg:      cfg,
		client:   client,
		poller:   poller,
		mapper:   mapper,
		disp:     action.NewDispatcher(client),
		source:   &inputSource{},
		uploadID: uploadID,
		statusCh: make(chan upload.Status, 8),
		pending:  make(chan actionRequest, 8),
		loading:  true,
	}

	ctrl, err := gesture.New(m, m.source, gesture.Config{
		Selector:           cfg.Gesture.RowSelector,
		Threshold:          cfg.Gesture.Threshold,
		MoveSampleInterval: time.Duration(cfg.Gesture.MoveSampleMs) * time.Millisecond,
		ResizeSettle:       time.Duration(cfg.Gesture.ResizeSettleMs) * time.Millisecond,
		SettleDuration:     time.Duration(cfg.Gesture.SettleMs) * time.Millisecond,
		CompactMaxWidth:    cfg.Gesture.CompactMaxWidth,
		OnDelete:           m.queueAction(gesture.SideLeft),
		OnEdit:             m.queueAction(gesture.SideRight),
	})
	if err != nil {
		cancel()
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

// Controller exposes the gesture controller for lifecycle wiring: the host
// starts it with the initial terminal width and destroys it on shutdown.
func (m *Model) Controller() *gesture.Controller {
	return m.ctrl
}

// StartGestures performs the initial viewport evaluation with the terminal
// width in columns. If the panel starts compact the touch source attaches
// immediately.
func (m *Model) StartGestures(cols int) {
	m.ctrl.Start(cols * pxPerCell)
}

// queueAction resolves the side to its configured action and queues the tap.
// Unmapped sides queue nothing; the gesture layer still resets the row.
func (m *Model) queueAction(side gesture.Side) gesture.Action {
	return func(id string, _ gesture.Row) {
		name := m.mapper.Map(side)
		if name == "" {
			return
		}
		select {
		case m.pending <- actionRequest{name: name, id: id}:
		default:
		}
	}
}

// RowAt implements gesture.Host: it maps a touch point to the transaction
// row on that line, or nil when the point lands outside the list.
func (m *Model) RowAt(selector string, _, y int) gesture.Row {
	if selector != m.cfg.Gesture.RowSelector {
		return nil
	}
	if m.showSummary || m.showGroups || m.editing {
		return nil
	}
	idx := y - rowsTop
	if idx < 0 || idx >= len(m.rows) {
		return nil
	}
	return m.rows[idx]
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadTransactions(),
		m.loadGroups(),
		frameTick(),
	}
	if m.uploadID != "" {
		cmds = append(cmds, m.watchUpload())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ctrl.Resize(msg.Width * pxPerCell)
		m.rebuildSummary()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.drainPending()

	case TouchMsg:
		m.handleTouch(msg.Event)
		return m, m.drainPending()

	case frameTickMsg:
		for _, r := range m.rows {
			r.advance()
		}
		m.drainUploadStatus()
		return m, frameTick()

	case txLoadedMsg:
		m.loading = false
		m.err = nil
		m.setTransactions(msg.txs)
		return m, nil

	case groupsMsg:
		m.groups = msg.groups
		return m, nil

	case actionDoneMsg:
		m.notice = "Deleted " + shortID(msg.id)
		return m, m.loadTransactions()

	case updatedMsg:
		m.notice = "Updated " + shortID(msg.id)
		return m, m.loadTransactions()

	case uploadDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.uploadStatus = &msg.status
		if msg.status.State == upload.StateComplete {
			return m, m.loadTransactions()
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "esc":
			m.editing = false
			return m, nil
		case "enter":
			m.editing = false
			return m, m.submitEdit(m.editID, m.editInput.Value())
		default:
			var cmd tea.Cmd
			m.editInput, cmd = m.editInput.Update(msg)
			return m, cmd
		}
	}

	if m.showGroups {
		switch msg.String() {
		case "esc", "f":
			m.showGroups = false
			return m, nil
		case "up", "k":
			if m.groupCursor > 0 {
				m.groupCursor--
			}
			return m, nil
		case "down", "j":
			if m.groupCursor < len(m.groups) {
				m.groupCursor++
			}
			return m, nil
		case "enter":
			m.showGroups = false
			if m.groupCursor == 0 {
				m.group = ""
			} else {
				m.group = m.groups[m.groupCursor-1]
			}
			m.loading = true
			return m, m.loadTransactions()
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.cancel()
		m.ctrl.Destroy()
		return m, tea.Quit
	case "r":
		m.loading = true
		m.notice = ""
		return m, tea.Batch(m.loadTransactions(), m.loadGroups())
	case "g":
		m.showSummary = !m.showSummary
		if m.showSummary {
			m.rebuildSummary()
		}
		return m, nil
	case "f":
		m.showGroups = true
		m.groupCursor = 0
		return m, nil
	case "esc":
		m.showSummary = false
		return m, nil
	}

	if m.showSummary {
		var cmd tea.Cmd
		m.summary, cmd = m.summary.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleMouse translates terminal mouse signals into touch signals. A press
// on a revealed action cell is a tap on the affordance; any other press
// begins a gesture on the row under the pointer. The program runs with
// all-motion mouse reporting, so hover motion arrives here too: only motion
// while the button is held is a touch move.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	h := m.source.active()
	if h == nil {
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.tapHit(msg.X, msg.Y) {
			m.ctrl.TapAction()
			return
		}
		m.mouseDown = true
		h.TouchStart(msg.X*pxPerCell, msg.Y)
	case tea.MouseActionMotion:
		if !m.mouseDown {
			return
		}
		h.TouchMove(msg.X * pxPerCell)
	case tea.MouseActionRelease:
		if !m.mouseDown {
			return
		}
		m.mouseDown = false
		h.TouchEnd()
	}
}

// handleTouch scales digitizer coordinates to the terminal grid and feeds
// them through the same path as mouse input.
func (m *Model) handleTouch(ev touch.Event) {
	h := m.source.active()
	if h == nil || m.width == 0 || m.height == 0 {
		return
	}
	devW, devH := m.cfg.Device.Width, m.cfg.Device.Height
	if devW == 0 || devH == 0 {
		return
	}
	col := ev.X * m.width / devW
	line := ev.Y * m.height / devH

	switch ev.Phase {
	case touch.PhaseStart:
		if m.tapHit(col, line) {
			m.ctrl.TapAction()
			return
		}
		h.TouchStart(col*pxPerCell, line)
	case touch.PhaseMove:
		h.TouchMove(col * pxPerCell)
	case touch.PhaseEnd:
		h.TouchEnd()
	}
}

// tapHit reports whether the point lands on the active row's revealed
// action cell.
func (m *Model) tapHit(col, line int) bool {
	activeID := m.ctrl.ActiveID()
	if activeID == "" {
		return false
	}
	idx := line - rowsTop
	if idx < 0 || idx >= len(m.rows) {
		return false
	}
	row := m.rows[idx]
	if row.ID() != activeID {
		return false
	}
	return row.panelHit(col, m.width)
}

// drainPending turns queued affordance taps into commands. Edits are
// interactive and open the inline editor; everything else goes to the
// dispatcher.
func (m *Model) drainPending() tea.Cmd {
	var cmds []tea.Cmd
	for {
		select {
		case req := <-m.pending:
			if req.name == config.ActionEdit {
				m.beginEdit(req.id)
				continue
			}
			cmds = append(cmds, m.execAction(req.name, req.id))
		default:
			return tea.Batch(cmds...)
		}
	}
}

func (m *Model) beginEdit(id string) {
	tx, ok := m.findTx(id)
	if !ok {
		return
	}
	input := textinput.New()
	input.Prompt = "category> "
	input.SetValue(tx.Category)
	input.CursorEnd()
	input.Focus()

	m.editing = true
	m.editID = id
	m.editInput = input
}

func (m *Model) execAction(name, id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.disp.Execute(m.ctx, name, id); err != nil {
			return errMsg{err}
		}
		return actionDoneMsg{id: id}
	}
}

func (m *Model) submitEdit(id, category string) tea.Cmd {
	tx, ok := m.findTx(id)
	if !ok {
		return nil
	}
	tx.Category = category
	return func() tea.Msg {
		if err := m.disp.Update(m.ctx, tx); err != nil {
			return errMsg{err}
		}
		return updatedMsg{id: id}
	}
}

func (m *Model) findTx(id string) (ledger.Transaction, bool) {
	for _, tx := range m.txs {
		if tx.ID.String() == id {
			return tx, true
		}
	}
	return ledger.Transaction{}, false
}

func (m *Model) setTransactions(txs []ledger.Transaction) {
	m.txs = txs
	m.rows = make([]*txRow, len(txs))
	for i, tx := range txs {
		m.rows[i] = newTxRow(tx)
	}
	if m.showSummary {
		m.rebuildSummary()
	}
}

func (m *Model) rebuildSummary() {
	h := m.height - rowsTop - 1
	if h < 3 {
		h = 3
	}
	m.summary = newSummaryTable(m.txs, m.cfg.UI.Currency, m.width, h)
}

func (m *Model) drainUploadStatus() {
	for {
		select {
		case s := <-m.statusCh:
			status := s
			m.uploadStatus = &status
		default:
			return
		}
	}
}

// Commands

func (m *Model) loadTransactions() tea.Cmd {
	group := m.group
	return func() tea.Msg {
		txs, err := m.client.Transactions(m.ctx, group)
		if err != nil {
			return errMsg{err}
		}
		return txLoadedMsg{txs: txs}
	}
}

func (m *Model) loadGroups() tea.Cmd {
	return func() tea.Msg {
		groups, err := m.client.Groups(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return groupsMsg{groups: groups}
	}
}

func (m *Model) watchUpload() tea.Cmd {
	return func() tea.Msg {
		status, err := m.poller.Watch(m.ctx, m.uploadID, func(s upload.Status) {
			select {
			case m.statusCh <- s:
			default:
			}
		})
		return uploadDoneMsg{status: status, err: err}
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// View

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	switch {
	case m.showSummary:
		b.WriteString(m.summary.View())
	case m.showGroups:
		b.WriteString(m.groupMenu())
	default:
		b.WriteString(m.headerLine())
		b.WriteString("\n")
		b.WriteString(m.listView())
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.editInput.View())
	}
	return b.String()
}

func (m *Model) titleLine() string {
	title := ui.Title("ledgerpad")
	if m.group != "" {
		title += "  " + ui.Subtitle(m.group)
	}
	if m.ctrl.Attached() {
		title += "  " + ui.MutedStyle.Render("[touch]")
	}
	return title
}

func (m *Model) statusLine() string {
	switch {
	case m.err != nil:
		return ui.Error(m.err.Error())
	case m.uploadStatus != nil && !m.uploadStatus.Done():
		s := m.uploadStatus
		return ui.Muted(fmt.Sprintf("importing upload %s: %s %d/%d (%d%%)",
			m.uploadID, s.State, s.Processed, s.Total, s.Percent()))
	case m.uploadStatus != nil && m.uploadStatus.State == upload.StateFailed:
		return ui.Error("upload failed: " + m.uploadStatus.Error)
	case m.notice != "":
		return ui.SuccessStyle.Render(m.notice)
	case m.loading:
		return ui.Muted("loading transactions...")
	default:
		return ui.Muted(fmt.Sprintf("%d transaction(s)  r:refresh g:summary f:groups q:quit", len(m.rows)))
	}
}

func (m *Model) headerLine() string {
	return ui.BoldStyle.Render(pad("Date    Payee", m.width-28) + pad("Category", 15) + pad("Amount", 12))
}

func (m *Model) listView() string {
	if len(m.rows) == 0 && !m.loading {
		return ui.Muted("  no transactions")
	}
	visible := m.height - rowsTop
	if visible < 1 {
		visible = 1
	}
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		if i >= visible {
			break
		}
		lines = append(lines, r.Render(m.width, m.cfg.UI.Currency))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) groupMenu() string {
	var b strings.Builder
	b.WriteString(ui.Bold("Filter by group"))
	b.WriteString("\n")

	options := append([]string{"All groups"}, m.groups...)
	for i, opt := range options {
		cursor := "  "
		line := opt
		if i == m.groupCursor {
			cursor = "> "
			line = ui.SubtitleStyle.Render(opt)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
