// Package ledger is the client for the personal-finance ledger service's
// REST API: the transaction list (optionally filtered by group), the group
// index, and the delete/update operations dispatched from swipe actions.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry. Negative amounts are expenses, positive
// ones income.
type Transaction struct {
	ID       uuid.UUID       `json:"id"`
	Date     time.Time       `json:"date"`
	Payee    string          `json:"payee"`
	Category string          `json:"category"`
	Group    string          `json:"group"`
	Amount   decimal.Decimal `json:"amount"`
}

// Expense reports whether the transaction is an outflow.
func (t Transaction) Expense() bool {
	return t.Amount.IsNegative()
}

// CategoryTotal aggregates the transactions of one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    decimal.Decimal
}

// SummarizeByCategory folds transactions into per-category counts and
// totals, in first-seen order.
func SummarizeByCategory(txs []Transaction) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal

	for _, tx := range txs {
		cat := tx.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		i, ok := index[cat]
		if !ok {
			i = len(totals)
			index[cat] = i
			totals = append(totals, CategoryTotal{Category: cat})
		}
		totals[i].Count++
		totals[i].Total = totals[i].Total.Add(tx.Amount)
	}

	return totals
}
