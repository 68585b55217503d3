package action

import (
	"context"
	"fmt"

	"ledgerpad/internal/config"
	"ledgerpad/internal/ledger"
)

// LedgerWriter is the interface for mutating ledger entries
type LedgerWriter interface {
	DeleteTransaction(ctx context.Context, id string) error
	UpdateTransaction(ctx context.Context, tx ledger.Transaction) error
}

// ErrInteractive marks actions that need host interaction (an editor)
// before anything can be written to the ledger.
var ErrInteractive = fmt.Errorf("action requires interaction")

// Dispatcher executes named actions against the ledger
type Dispatcher struct {
	writer LedgerWriter
}

// NewDispatcher creates a new action dispatcher
func NewDispatcher(writer LedgerWriter) *Dispatcher {
	return &Dispatcher{writer: writer}
}

// Execute runs a named action for a transaction. Edit actions return
// ErrInteractive: the host collects the new values and calls Update.
func (d *Dispatcher) Execute(ctx context.Context, name, id string) error {
	switch name {
	case config.ActionDelete:
		if err := d.writer.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("delete action: %w", err)
		}
		return nil
	case config.ActionEdit:
		return ErrInteractive
	case "":
		return nil
	default:
		return fmt.Errorf("unknown action %q", name)
	}
}

// Update writes an edited transaction back to the ledger
func (d *Dispatcher) Update(ctx context.Context, tx ledger.Transaction) error {
	if err := d.writer.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("edit action: %w", err)
	}
	return nil
}
