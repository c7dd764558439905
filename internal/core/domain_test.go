package core

import (
	"errors"
	"testing"
)

func TestScheduledFireDate(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      int
		dayOfMonth int
		want       Date
	}{
		{
			name: "plain day fits the month",
			year: 2025, month: 3, dayOfMonth: 15,
			want: NewDate(2025, 3, 15),
		},
		{
			name: "day 31 in february clamps to 28",
			year: 2025, month: 2, dayOfMonth: 31,
			want: NewDate(2025, 2, 28),
		},
		{
			name: "day 31 in leap february clamps to 29",
			year: 2024, month: 2, dayOfMonth: 31,
			want: NewDate(2024, 2, 29),
		},
		{
			name: "day 31 in april clamps to 30",
			year: 2025, month: 4, dayOfMonth: 31,
			want: NewDate(2025, 4, 30),
		},
		{
			name: "day 1 never clamps",
			year: 2025, month: 2, dayOfMonth: 1,
			want: NewDate(2025, 2, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScheduledFireDate(tt.year, tt.month, tt.dayOfMonth)
			if !got.Equal(tt.want.Time) {
				t.Errorf("ScheduledFireDate(%d, %d, %d) = %s, want %s",
					tt.year, tt.month, tt.dayOfMonth, got, tt.want)
			}
		})
	}
}

func TestDateSameMonth(t *testing.T) {
	a := NewDate(2025, 2, 1)
	if !a.SameMonth(NewDate(2025, 2, 28)) {
		t.Error("dates in the same month should match")
	}
	if a.SameMonth(NewDate(2024, 2, 1)) {
		t.Error("same month in a different year should not match")
	}
	if a.SameMonth(NewDate(2025, 3, 1)) {
		t.Error("different months should not match")
	}
}

func TestRecurringTransactionActiveAsOf(t *testing.T) {
	base := RecurringTransaction{
		Description: "rent",
		Amount:      Money{Cents: 100000},
		Kind:        Expense,
		CategoryID:  1,
		AccountID:   1,
		DayOfMonth:  5,
		StartDate:   NewDate(2025, 1, 1),
	}

	tests := []struct {
		name string
		end  Date
		ref  Date
		want bool
	}{
		{"before start", Date{}, NewDate(2024, 12, 31), false},
		{"on start", Date{}, NewDate(2025, 1, 1), true},
		{"open ended far future", Date{}, NewDate(2030, 6, 1), true},
		{"before end", NewDate(2025, 6, 30), NewDate(2025, 6, 30), true},
		{"after end", NewDate(2025, 6, 30), NewDate(2025, 7, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			r.EndDate = tt.end
			if got := r.ActiveAsOf(tt.ref); got != tt.want {
				t.Errorf("ActiveAsOf(%s) = %v, want %v", tt.ref, got, tt.want)
			}
		})
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Description: "groceries",
		Amount:      Money{Cents: 4200},
		Date:        NewDate(2025, 1, 10),
		Kind:        Expense,
		AccountID:   1,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
	}{
		{"empty description", func(tr *Transaction) { tr.Description = "  " }},
		{"zero amount", func(tr *Transaction) { tr.Amount = Money{} }},
		{"negative amount", func(tr *Transaction) { tr.Amount = Money{Cents: -100} }},
		{"zero date", func(tr *Transaction) { tr.Date = Date{} }},
		{"future date", func(tr *Transaction) { tr.Date = NewDate(2999, 1, 1) }},
		{"bad kind", func(tr *Transaction) { tr.Kind = "savings" }},
		{"missing account", func(tr *Transaction) { tr.AccountID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := valid
			tt.mutate(&tr)
			err := tr.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
		})
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	valid := RecurringTransaction{
		Description: "internet",
		Amount:      Money{Cents: 8900},
		Kind:        Expense,
		CategoryID:  2,
		AccountID:   1,
		DayOfMonth:  10,
		StartDate:   NewDate(2025, 1, 1),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid recurring transaction rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*RecurringTransaction)
	}{
		{"missing category", func(r *RecurringTransaction) { r.CategoryID = 0 }},
		{"missing account", func(r *RecurringTransaction) { r.AccountID = 0 }},
		{"day zero", func(r *RecurringTransaction) { r.DayOfMonth = 0 }},
		{"day 32", func(r *RecurringTransaction) { r.DayOfMonth = 32 }},
		{"missing start", func(r *RecurringTransaction) { r.StartDate = Date{} }},
		{"end before start", func(r *RecurringTransaction) { r.EndDate = NewDate(2024, 12, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestBudgetValidate(t *testing.T) {
	valid := Budget{CategoryID: 1, Limit: Money{Cents: 20000}, Month: 3, Year: 2025}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}
	for _, tt := range []struct {
		name   string
		budget Budget
	}{
		{"month 0", Budget{CategoryID: 1, Limit: Money{Cents: 1}, Month: 0, Year: 2025}},
		{"month 13", Budget{CategoryID: 1, Limit: Money{Cents: 1}, Month: 13, Year: 2025}},
		{"no category", Budget{Limit: Money{Cents: 1}, Month: 1, Year: 2025}},
		{"zero limit", Budget{CategoryID: 1, Month: 1, Year: 2025}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.budget.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(Consistencyf("kind mismatch on obligation %d", 7), ErrConsistency) {
		t.Error("Consistencyf must wrap ErrConsistency")
	}
	if !errors.Is(InsufficientFundsf("account %q", "Wallet"), ErrInsufficientFunds) {
		t.Error("InsufficientFundsf must wrap ErrInsufficientFunds")
	}
	if !errors.Is(NotFoundf("category %d", 3), ErrNotFound) {
		t.Error("NotFoundf must wrap ErrNotFound")
	}
	if !errors.Is(Persistencef("begin: %v", "boom"), ErrPersistence) {
		t.Error("Persistencef must wrap ErrPersistence")
	}
}
