package services

import (
	"context"
	"errors"
	"testing"

	"moneta/internal/core"
)

func TestTransferMovesFundsAtomically(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)
	transfer := NewTransfer(gw, ledger)
	ctx := context.Background()

	src := seedAccount(t, gw, "Checking", core.Checking, 50_000)
	dst := seedAccount(t, gw, "Savings", core.Cash, 0)

	if err := transfer.Execute(ctx, src.ID, dst.ID, core.Money{Cents: 20_000}, core.NewDate(2025, 6, 1)); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	srcBalance, err := ledger.CurrentBalance(ctx, src.ID)
	if err != nil {
		t.Fatalf("source balance: %v", err)
	}
	if srcBalance.Cents != 30_000 {
		t.Errorf("source balance = %d, want 30000", srcBalance.Cents)
	}
	dstBalance, err := ledger.CurrentBalance(ctx, dst.ID)
	if err != nil {
		t.Fatalf("destination balance: %v", err)
	}
	if dstBalance.Cents != 20_000 {
		t.Errorf("destination balance = %d, want 20000", dstBalance.Cents)
	}

	outgoing, err := gw.Transactions().FindByAccount(ctx, nil, src.ID)
	if err != nil {
		t.Fatalf("FindByAccount: %v", err)
	}
	if len(outgoing) != 1 {
		t.Fatalf("got %d source transactions, want 1", len(outgoing))
	}
	leg := outgoing[0]
	if leg.Kind != core.Expense || leg.CategoryID != nil {
		t.Errorf("outgoing leg = %+v, want uncategorized expense", leg)
	}
	if leg.Description != "Transfer to Savings" {
		t.Errorf("outgoing description = %q", leg.Description)
	}

	incoming, err := gw.Transactions().FindByAccount(ctx, nil, dst.ID)
	if err != nil {
		t.Fatalf("FindByAccount: %v", err)
	}
	if len(incoming) != 1 || incoming[0].Kind != core.Income {
		t.Fatalf("incoming legs = %+v, want one income", incoming)
	}
	if incoming[0].Description != "Transfer from Checking" {
		t.Errorf("incoming description = %q", incoming[0].Description)
	}
}

func TestTransferRejections(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)
	transfer := NewTransfer(gw, ledger)
	ctx := context.Background()

	src := seedAccount(t, gw, "Checking", core.Checking, 10_000)
	dst := seedAccount(t, gw, "Savings", core.Cash, 0)
	day := core.NewDate(2025, 6, 1)

	tests := []struct {
		name     string
		source   int64
		dest     int64
		amount   int64
		date     core.Date
		wantKind error
	}{
		{"same account", src.ID, src.ID, 100, day, core.ErrValidation},
		{"zero amount", src.ID, dst.ID, 0, day, core.ErrValidation},
		{"negative amount", src.ID, dst.ID, -500, day, core.ErrValidation},
		{"empty date", src.ID, dst.ID, 100, core.Date{}, core.ErrValidation},
		{"future date", src.ID, dst.ID, 100, core.NewDate(2099, 1, 1), core.ErrValidation},
		{"unknown source", 9999, dst.ID, 100, day, core.ErrNotFound},
		{"unknown destination", src.ID, 9999, 100, day, core.ErrNotFound},
		{"insufficient funds", src.ID, dst.ID, 10_001, day, core.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transfer.Execute(ctx, tt.source, tt.dest, core.Money{Cents: tt.amount}, tt.date)
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("err = %v, want %v", err, tt.wantKind)
			}
		})
	}

	// No rejected transfer may leave a partial write behind.
	history, err := gw.Transactions().ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("got %d transactions after rejected transfers, want 0", len(history))
	}
}

func TestTransferExactBalancePasses(t *testing.T) {
	gw := newTestGateway(t)
	transfer := NewTransfer(gw, NewLedger(gw))

	src := seedAccount(t, gw, "Checking", core.Checking, 10_000)
	dst := seedAccount(t, gw, "Savings", core.Cash, 0)

	err := transfer.Execute(context.Background(), src.ID, dst.ID, core.Money{Cents: 10_000}, core.NewDate(2025, 6, 1))
	if err != nil {
		t.Fatalf("transfer of exact balance rejected: %v", err)
	}
}

func TestTransferFromCreditCardSkipsFundsCheck(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)
	transfer := NewTransfer(gw, ledger)
	ctx := context.Background()

	card := seedAccount(t, gw, "Card", core.CreditCard, 0)
	dst := seedAccount(t, gw, "Checking", core.Checking, 0)

	// The card holds nothing; a cash advance just deepens the debt.
	if err := transfer.Execute(ctx, card.ID, dst.ID, core.Money{Cents: 5_000}, core.NewDate(2025, 6, 1)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	balance, err := ledger.CurrentBalance(ctx, card.ID)
	if err != nil {
		t.Fatalf("card balance: %v", err)
	}
	if balance.Cents != -5_000 {
		t.Errorf("card balance = %d, want -5000", balance.Cents)
	}
}
