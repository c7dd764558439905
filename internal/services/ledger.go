// Package services implements the consistency kernel on top of the storage
// gateway: ledger balance derivation, recurring obligation processing, atomic
// transfers, budget evaluation, manual entry, and reporting.
package services

import (
	"context"
	"fmt"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// Ledger derives account balances from the opening balance plus the full
// transaction history. Balances are recomputed on every call and never
// cached; the transaction log is the single source of truth.
type Ledger struct {
	gw storage.Gateway
}

func NewLedger(gw storage.Gateway) *Ledger {
	return &Ledger{gw: gw}
}

// CurrentBalance returns the account's balance under the external sign
// convention: positive means funds available, and for credit cards negative
// means debt owed.
func (l *Ledger) CurrentBalance(ctx context.Context, accountID int64) (core.Money, error) {
	return l.BalanceInTx(ctx, nil, accountID)
}

// BalanceInTx is CurrentBalance scoped to an open unit of work, so the
// transfer orchestrator can check funds against uncommitted state.
//
// Internally a credit card accumulates debt: expenses add, payments subtract.
// The accumulated total is negated on the way out so that owing money reads
// as a negative balance, like every other account.
func (l *Ledger) BalanceInTx(ctx context.Context, tx storage.Tx, accountID int64) (core.Money, error) {
	account, err := l.gw.Accounts().GetByID(ctx, tx, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("load account: %w", err)
	}
	history, err := l.gw.Transactions().FindByAccount(ctx, tx, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("load transactions: %w", err)
	}

	total := account.OpeningBalance.Cents
	for _, t := range history {
		total += internalDelta(account.Kind, t.Kind, t.Amount)
	}
	if account.Kind == core.CreditCard {
		total = -total
	}
	return core.Money{Cents: total}, nil
}

// TotalIncomeByAccount sums the account's income transactions.
func (l *Ledger) TotalIncomeByAccount(ctx context.Context, accountID int64) (core.Money, error) {
	return l.totalByKind(ctx, accountID, core.Income)
}

// TotalExpensesByAccount sums the account's expense transactions.
func (l *Ledger) TotalExpensesByAccount(ctx context.Context, accountID int64) (core.Money, error) {
	return l.totalByKind(ctx, accountID, core.Expense)
}

func (l *Ledger) totalByKind(ctx context.Context, accountID int64, kind core.TransactionKind) (core.Money, error) {
	if _, err := l.gw.Accounts().GetByID(ctx, nil, accountID); err != nil {
		return core.Money{}, fmt.Errorf("load account: %w", err)
	}
	history, err := l.gw.Transactions().FindByAccount(ctx, nil, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("load transactions: %w", err)
	}
	var total int64
	for _, t := range history {
		if t.Kind == kind {
			total += t.Amount.Cents
		}
	}
	return core.Money{Cents: total}, nil
}

func internalDelta(account core.AccountKind, kind core.TransactionKind, amount core.Money) int64 {
	if account == core.CreditCard {
		// Inverted: spending on the card grows the debt total.
		if kind == core.Expense {
			return amount.Cents
		}
		return -amount.Cents
	}
	if kind == core.Income {
		return amount.Cents
	}
	return -amount.Cents
}
