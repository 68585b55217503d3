package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"ledgerpad/internal/ledger"
	"ledgerpad/internal/ui"
)

// newSummaryTable builds the per-category spending grid shown when the
// summary view is toggled on.
func newSummaryTable(txs []ledger.Transaction, currency string, width, height int) table.Model {
	totals := ledger.SummarizeByCategory(txs)

	catW := width - 30
	if catW < 14 {
		catW = 14
	}
	columns := []table.Column{
		{Title: "Category", Width: catW},
		{Title: "Count", Width: 7},
		{Title: "Total", Width: 16},
	}

	rows := make([]table.Row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, table.Row{
			t.Category,
			strconv.Itoa(t.Count),
			currency + t.Total.StringFixed(2),
		})
	}

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ui.ColorPrimary)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(ui.ColorPrimary).
		Bold(false)
	tbl.SetStyles(styles)

	return tbl
}
