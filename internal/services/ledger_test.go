package services

import (
	"context"
	"errors"
	"testing"

	"moneta/internal/core"
)

func TestCurrentBalance(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)
	ctx := context.Background()

	checking := seedAccount(t, gw, "Checking", core.Checking, 10_000)
	card := seedAccount(t, gw, "Card", core.CreditCard, 0)
	salary := seedCategory(t, gw, "Salary", core.Income)
	food := seedCategory(t, gw, "Food", core.Expense)

	day := core.NewDate(2025, 3, 10)
	seedTransaction(t, gw, "paycheck", 200_000, day, core.Income, ptr(salary.ID), checking.ID)
	seedTransaction(t, gw, "groceries", 30_000, day, core.Expense, ptr(food.ID), checking.ID)
	seedTransaction(t, gw, "dinner", 5_000, day, core.Expense, ptr(food.ID), card.ID)
	seedTransaction(t, gw, "card payment", 2_000, day, core.Income, nil, card.ID)

	t.Run("regular account adds income and subtracts expenses", func(t *testing.T) {
		got, err := ledger.CurrentBalance(ctx, checking.ID)
		if err != nil {
			t.Fatalf("CurrentBalance: %v", err)
		}
		if want := int64(180_000); got.Cents != want {
			t.Errorf("balance = %d, want %d", got.Cents, want)
		}
	})

	t.Run("credit card reports debt as negative", func(t *testing.T) {
		got, err := ledger.CurrentBalance(ctx, card.ID)
		if err != nil {
			t.Fatalf("CurrentBalance: %v", err)
		}
		// 5000 spent, 2000 paid back: 3000 owed.
		if want := int64(-3_000); got.Cents != want {
			t.Errorf("balance = %d, want %d", got.Cents, want)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := ledger.CurrentBalance(ctx, 9999)
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCurrentBalanceNoTransactions(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)

	tests := []struct {
		name    string
		kind    core.AccountKind
		opening int64
		want    int64
	}{
		{"checking equals opening", core.Checking, 12_345, 12_345},
		{"cash equals opening", core.Cash, 500, 500},
		{"credit card opening reads as debt", core.CreditCard, 7_500, -7_500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := seedAccount(t, gw, tt.name, tt.kind, tt.opening)
			got, err := ledger.CurrentBalance(context.Background(), a.ID)
			if err != nil {
				t.Fatalf("CurrentBalance: %v", err)
			}
			if got.Cents != tt.want {
				t.Errorf("balance = %d, want %d", got.Cents, tt.want)
			}
		})
	}
}

func TestAccountTotals(t *testing.T) {
	gw := newTestGateway(t)
	ledger := NewLedger(gw)
	ctx := context.Background()

	acc := seedAccount(t, gw, "Main", core.Checking, 0)
	day := core.NewDate(2025, 5, 2)
	seedTransaction(t, gw, "in one", 1_000, day, core.Income, nil, acc.ID)
	seedTransaction(t, gw, "in two", 2_500, day, core.Income, nil, acc.ID)
	seedTransaction(t, gw, "out", 400, day, core.Expense, nil, acc.ID)

	income, err := ledger.TotalIncomeByAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("TotalIncomeByAccount: %v", err)
	}
	if income.Cents != 3_500 {
		t.Errorf("income = %d, want 3500", income.Cents)
	}

	expenses, err := ledger.TotalExpensesByAccount(ctx, acc.ID)
	if err != nil {
		t.Fatalf("TotalExpensesByAccount: %v", err)
	}
	if expenses.Cents != 400 {
		t.Errorf("expenses = %d, want 400", expenses.Cents)
	}
}
