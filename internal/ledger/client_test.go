package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

const testTransactionsJSON = `[
  {
    "id": "3f1e9c6a-33a4-4f5e-9d0e-2f6a1b7c8d90",
    "date": "2026-08-01T00:00:00Z",
    "payee": "Corner Grocery",
    "category": "Groceries",
    "group": "Household",
    "amount": "-42.75"
  },
  {
    "id": "a2b4c6d8-1111-2222-3333-444455556666",
    "date": "2026-08-03T00:00:00Z",
    "payee": "Paycheck",
    "category": "Income",
    "group": "Salary",
    "amount": "2100.00"
  }
]`

func TestTransactions(t *testing.T) {
	var gotGroup string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions" {
			t.Errorf("path = %q, want /transactions", r.URL.Path)
		}
		gotGroup = r.URL.Query().Get("group")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(testTransactionsJSON))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)

	txs, err := c.Transactions(context.Background(), "Household")
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if gotGroup != "Household" {
		t.Errorf("group query = %q, want Household", gotGroup)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Payee != "Corner Grocery" {
		t.Errorf("Payee = %q, want Corner Grocery", txs[0].Payee)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("-42.75")) {
		t.Errorf("Amount = %s, want -42.75", txs[0].Amount)
	}
	if !txs[0].Expense() {
		t.Error("grocery transaction should be an expense")
	}
	if txs[1].Expense() {
		t.Error("paycheck should not be an expense")
	}
}

func TestTransactionsNoGroupOmitsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	if _, err := c.Transactions(context.Background(), ""); err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
}

func TestTransactionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	if _, err := c.Transactions(context.Background(), ""); err == nil {
		t.Error("Transactions() should surface a server error")
	}
}

func TestGroups(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/groups" {
			t.Errorf("path = %q, want /groups", r.URL.Path)
		}
		w.Write([]byte(`["Household","Salary","Travel"]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	groups, err := c.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 3 || groups[2] != "Travel" {
		t.Errorf("groups = %v, want three ending in Travel", groups)
	}
}

func TestDeleteTransaction(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	if err := c.DeleteTransaction(context.Background(), "tx-1"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotPath != "/transactions/tx-1" {
		t.Errorf("path = %q, want /transactions/tx-1", gotPath)
	}
}

func TestDeleteTransactionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	if err := c.DeleteTransaction(context.Background(), "missing"); err == nil {
		t.Error("DeleteTransaction() should fail on 404")
	}
}

func TestUpdateTransaction(t *testing.T) {
	var gotMethod, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, 2*time.Second)
	tx := Transaction{Payee: "Edited", Amount: decimal.RequireFromString("-10")}
	if err := c.UpdateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}
}

func TestSummarizeByCategory(t *testing.T) {
	txs := []Transaction{
		{Category: "Groceries", Amount: decimal.RequireFromString("-10")},
		{Category: "Groceries", Amount: decimal.RequireFromString("-15.50")},
		{Category: "", Amount: decimal.RequireFromString("-3")},
		{Category: "Income", Amount: decimal.RequireFromString("100")},
	}

	totals := SummarizeByCategory(txs)
	if len(totals) != 3 {
		t.Fatalf("got %d categories, want 3", len(totals))
	}
	if totals[0].Category != "Groceries" || totals[0].Count != 2 {
		t.Errorf("first bucket = %+v, want Groceries x2", totals[0])
	}
	if !totals[0].Total.Equal(decimal.RequireFromString("-25.50")) {
		t.Errorf("Groceries total = %s, want -25.50", totals[0].Total)
	}
	if totals[1].Category != "Uncategorized" {
		t.Errorf("second bucket = %q, want Uncategorized", totals[1].Category)
	}
}
