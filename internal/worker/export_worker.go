// Package worker turns transaction events into export rows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"moneta/internal/amqp"
	"moneta/internal/core"
	"moneta/internal/export"
	"moneta/internal/storage"
)

// ExportWorker consumes transaction events and mirrors created transactions
// to the export target. The export is append-only; delete events are
// acknowledged without touching previously exported rows.
type ExportWorker struct {
	gw     storage.Gateway
	writer export.RowWriter
}

func NewExportWorker(gw storage.Gateway, writer export.RowWriter) *ExportWorker {
	return &ExportWorker{gw: gw, writer: writer}
}

// HandleEvent processes one event. Returning an error requeues the delivery,
// except for a transaction that no longer exists, which is dropped: it was
// deleted between publish and consumption and can never succeed.
func (w *ExportWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	switch event.Kind {
	case amqp.EventTransactionCreated:
		return w.exportTransaction(ctx, event.TransactionID)
	case amqp.EventTransactionDeleted:
		slog.InfoContext(ctx, "transaction deleted upstream, export target is append-only",
			"transaction_id", event.TransactionID)
		return nil
	default:
		slog.WarnContext(ctx, "ignoring unknown event kind", "kind", event.Kind)
		return nil
	}
}

func (w *ExportWorker) exportTransaction(ctx context.Context, id int64) error {
	t, err := w.gw.Transactions().GetByID(ctx, nil, id)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "transaction vanished before export", "transaction_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	account, err := w.gw.Accounts().GetByID(ctx, nil, t.AccountID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}

	var categoryName string
	if t.CategoryID != nil {
		category, err := w.gw.Categories().GetByID(ctx, nil, *t.CategoryID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("load category: %w", err)
		}
		categoryName = category.Name
	}

	ref, err := w.writer.Append(ctx, export.Row{
		Date:        t.Date.String(),
		Description: t.Description,
		Kind:        string(t.Kind),
		Category:    categoryName,
		Account:     account.Name,
		Amount:      t.Amount.Display(),
	})
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	slog.InfoContext(ctx, "exported transaction",
		"transaction_id", id,
		"ref", ref,
		"amount_cents", t.Amount.Cents)
	return nil
}
