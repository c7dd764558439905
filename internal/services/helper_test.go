package services

import (
	"context"
	"path/filepath"
	"testing"

	"moneta/internal/core"
	"moneta/internal/storage"
	"moneta/internal/storage/sqlite"
)

func newTestGateway(t *testing.T) storage.Gateway {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "moneta.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedAccount(t *testing.T, gw storage.Gateway, name string, kind core.AccountKind, openingCents int64) core.Account {
	t.Helper()
	a := core.Account{Name: name, Kind: kind, OpeningBalance: core.Money{Cents: openingCents}}
	if err := gw.Accounts().Create(context.Background(), nil, &a); err != nil {
		t.Fatalf("seed account %q: %v", name, err)
	}
	return a
}

func seedCategory(t *testing.T, gw storage.Gateway, name string, kind core.TransactionKind) core.Category {
	t.Helper()
	c := core.Category{Name: name, Kind: kind}
	if err := gw.Categories().Create(context.Background(), nil, &c); err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	return c
}

func seedTransaction(t *testing.T, gw storage.Gateway, desc string, cents int64, date core.Date, kind core.TransactionKind, categoryID *int64, accountID int64) core.Transaction {
	t.Helper()
	tr := core.Transaction{
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Kind:        kind,
		CategoryID:  categoryID,
		AccountID:   accountID,
	}
	if err := gw.Transactions().Create(context.Background(), nil, &tr); err != nil {
		t.Fatalf("seed transaction %q: %v", desc, err)
	}
	return tr
}

func seedRecurring(t *testing.T, gw storage.Gateway, r core.RecurringTransaction) core.RecurringTransaction {
	t.Helper()
	if err := gw.Recurring().Create(context.Background(), nil, &r); err != nil {
		t.Fatalf("seed recurring %q: %v", r.Description, err)
	}
	return r
}

func seedBudget(t *testing.T, gw storage.Gateway, categoryID int64, limitCents int64, month, year int) core.Budget {
	t.Helper()
	b := core.Budget{CategoryID: categoryID, Limit: core.Money{Cents: limitCents}, Month: month, Year: year}
	if err := gw.Budgets().Create(context.Background(), nil, &b); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	return b
}

func ptr(id int64) *int64 { return &id }
