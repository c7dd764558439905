package services

import (
	"context"
	"testing"

	"moneta/internal/core"
)

func TestPeriodTotals(t *testing.T) {
	gw := newTestGateway(t)
	reports := NewReports(gw)
	ctx := context.Background()

	acc := seedAccount(t, gw, "Checking", core.Checking, 0)
	salary := seedCategory(t, gw, "Salary", core.Income)
	food := seedCategory(t, gw, "Food", core.Expense)

	seedTransaction(t, gw, "paycheck", 200_000, core.NewDate(2025, 3, 1), core.Income, ptr(salary.ID), acc.ID)
	seedTransaction(t, gw, "groceries", 30_000, core.NewDate(2025, 3, 10), core.Expense, ptr(food.ID), acc.ID)
	// Uncategorized (a transfer leg): excluded from period totals.
	seedTransaction(t, gw, "Transfer to Savings", 50_000, core.NewDate(2025, 3, 15), core.Expense, nil, acc.ID)
	// Outside the period.
	seedTransaction(t, gw, "april groceries", 9_000, core.NewDate(2025, 4, 2), core.Expense, ptr(food.ID), acc.ID)

	from, to := core.MonthPeriod(2025, 3)

	income, err := reports.TotalIncome(ctx, from, to)
	if err != nil {
		t.Fatalf("TotalIncome: %v", err)
	}
	if income.Cents != 200_000 {
		t.Errorf("income = %d, want 200000", income.Cents)
	}

	expenses, err := reports.TotalExpenses(ctx, from, to)
	if err != nil {
		t.Fatalf("TotalExpenses: %v", err)
	}
	if expenses.Cents != 30_000 {
		t.Errorf("expenses = %d, want 30000 (transfer leg excluded)", expenses.Cents)
	}

	balance, err := reports.BalanceForPeriod(ctx, from, to)
	if err != nil {
		t.Fatalf("BalanceForPeriod: %v", err)
	}
	if balance.Cents != 170_000 {
		t.Errorf("balance = %d, want 170000", balance.Cents)
	}

	summary, err := reports.Summary(ctx, from, to)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Balance.Cents != 170_000 || summary.Income.Cents != 200_000 || summary.Expenses.Cents != 30_000 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestExpensesByCategory(t *testing.T) {
	gw := newTestGateway(t)
	reports := NewReports(gw)
	ctx := context.Background()

	acc := seedAccount(t, gw, "Checking", core.Checking, 0)
	food := seedCategory(t, gw, "Food", core.Expense)
	transport := seedCategory(t, gw, "Transport", core.Expense)

	seedTransaction(t, gw, "groceries", 10_000, core.NewDate(2025, 3, 5), core.Expense, ptr(food.ID), acc.ID)
	seedTransaction(t, gw, "restaurant", 4_000, core.NewDate(2025, 3, 12), core.Expense, ptr(food.ID), acc.ID)
	seedTransaction(t, gw, "bus pass", 1_500, core.NewDate(2025, 3, 1), core.Expense, ptr(transport.ID), acc.ID)

	from, to := core.MonthPeriod(2025, 3)
	got, err := reports.ExpensesByCategory(ctx, from, to)
	if err != nil {
		t.Fatalf("ExpensesByCategory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d categories, want 2: %v", len(got), got)
	}
	if got["Food"].Cents != 14_000 {
		t.Errorf("Food = %d, want 14000", got["Food"].Cents)
	}
	if got["Transport"].Cents != 1_500 {
		t.Errorf("Transport = %d, want 1500", got["Transport"].Cents)
	}
}

func TestNetWorthEvolution(t *testing.T) {
	gw := newTestGateway(t)
	reports := NewReports(gw)
	ctx := context.Background()

	checking := seedAccount(t, gw, "Checking", core.Checking, 100_000)
	seedAccount(t, gw, "Card", core.CreditCard, 20_000) // starts 20000 in debt
	salary := seedCategory(t, gw, "Salary", core.Income)
	food := seedCategory(t, gw, "Food", core.Expense)

	// Before the window: shifts the base.
	seedTransaction(t, gw, "old paycheck", 50_000, core.NewDate(2025, 2, 25), core.Income, ptr(salary.ID), checking.ID)
	// Inside the window.
	seedTransaction(t, gw, "groceries", 10_000, core.NewDate(2025, 3, 2), core.Expense, ptr(food.ID), checking.ID)
	seedTransaction(t, gw, "paycheck", 30_000, core.NewDate(2025, 3, 3), core.Income, ptr(salary.ID), checking.ID)

	series, err := reports.NetWorthEvolution(ctx, core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 4))
	if err != nil {
		t.Fatalf("NetWorthEvolution: %v", err)
	}
	if len(series) != 4 {
		t.Fatalf("got %d points, want 4", len(series))
	}

	// Base: 100000 opening - 20000 card debt + 50000 prior income = 130000.
	want := []int64{130_000, 120_000, 150_000, 150_000}
	for i, point := range series {
		if point.Total.Cents != want[i] {
			t.Errorf("day %d (%s) = %d, want %d", i+1, point.Date, point.Total.Cents, want[i])
		}
	}

	t.Run("inverted period rejected", func(t *testing.T) {
		_, err := reports.NetWorthEvolution(ctx, core.NewDate(2025, 3, 4), core.NewDate(2025, 3, 1))
		if err == nil {
			t.Error("expected validation error")
		}
	})
}
