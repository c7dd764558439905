package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// Transfer moves money between two accounts as an atomic pair of
// transactions: an expense on the source and an income on the destination.
// Either both rows commit or neither does.
type Transfer struct {
	gw     storage.Gateway
	ledger *Ledger
}

func NewTransfer(gw storage.Gateway, ledger *Ledger) *Transfer {
	return &Transfer{gw: gw, ledger: ledger}
}

// Execute performs the transfer dated at the given day. The source must hold
// enough funds unless it is a credit card, which may go further into debt.
// Transfer legs carry no category so they never count against budgets.
func (t *Transfer) Execute(ctx context.Context, sourceID, destID int64, amount core.Money, date core.Date) error {
	if sourceID == destID {
		return core.Validationf("cannot transfer from account %d to itself", sourceID)
	}
	if err := amount.Validate(); err != nil {
		return err
	}
	if date.IsZero() {
		return core.Validationf("transfer date cannot be empty")
	}
	if date.AfterToday() {
		return core.Validationf("transfer date %s cannot be in the future", date)
	}

	tx, err := t.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "transfer")

	source, err := t.gw.Accounts().GetByID(ctx, tx, sourceID)
	if err != nil {
		return fmt.Errorf("load source account: %w", err)
	}
	dest, err := t.gw.Accounts().GetByID(ctx, tx, destID)
	if err != nil {
		return fmt.Errorf("load destination account: %w", err)
	}

	if source.Kind != core.CreditCard {
		balance, err := t.ledger.BalanceInTx(ctx, tx, sourceID)
		if err != nil {
			return err
		}
		if balance.Cents < amount.Cents {
			return core.InsufficientFundsf("account %q holds %s, transfer needs %s",
				source.Name, balance, amount)
		}
	}

	out := core.Transaction{
		Description: fmt.Sprintf("Transfer to %s", dest.Name),
		Amount:      amount,
		Date:        date,
		Kind:        core.Expense,
		AccountID:   sourceID,
	}
	in := core.Transaction{
		Description: fmt.Sprintf("Transfer from %s", source.Name),
		Amount:      amount,
		Date:        date,
		Kind:        core.Income,
		AccountID:   destID,
	}
	if err := t.gw.Transactions().Create(ctx, tx, &out); err != nil {
		return fmt.Errorf("record outgoing leg: %w", err)
	}
	if err := t.gw.Transactions().Create(ctx, tx, &in); err != nil {
		return fmt.Errorf("record incoming leg: %w", err)
	}
	return tx.Commit()
}

// rollback discards an uncommitted unit of work. Calling it after a commit is
// a no-op in both backends, so it is safe to defer unconditionally.
func rollback(ctx context.Context, tx storage.Tx, op string) {
	if err := tx.Rollback(); err != nil {
		slog.DebugContext(ctx, "rollback after commit", "op", op, "error", err)
	}
}
