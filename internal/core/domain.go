package core

import (
	"strings"
)

const (
	Cash       AccountKind = "cash"
	Checking   AccountKind = "checking"
	CreditCard AccountKind = "credit_card"
)

const (
	Income  TransactionKind = "income"
	Expense TransactionKind = "expense"
)

type (
	AccountKind     string
	TransactionKind string

	// Account is a money holder. Its balance is never stored; the ledger
	// derives it from the opening balance plus transaction history.
	Account struct {
		ID             int64
		Name           string
		OpeningBalance Money
		Kind           AccountKind
	}

	Category struct {
		ID   int64
		Name string
		Kind TransactionKind
	}

	// Transaction is a single dated movement on an account. Category is
	// optional; transfers deliberately carry none.
	Transaction struct {
		ID          int64
		Description string
		Amount      Money
		Date        Date
		Kind        TransactionKind
		CategoryID  *int64
		AccountID   int64
	}

	// RecurringTransaction is a template that fires once per calendar month
	// on DayOfMonth, clamped to shorter months. LastProcessed guards against
	// double firing within the same month.
	RecurringTransaction struct {
		ID            int64
		Description   string
		Amount        Money
		Kind          TransactionKind
		CategoryID    int64
		AccountID     int64
		DayOfMonth    int
		StartDate     Date
		EndDate       Date // zero when open-ended
		LastProcessed Date // zero when never fired
	}

	// Budget caps expense spend for one category in one calendar month.
	// At most one budget may exist per (category, month, year).
	Budget struct {
		ID         int64
		CategoryID int64
		Limit      Money
		Month      int
		Year       int
	}
)

func (k AccountKind) Valid() bool {
	switch k {
	case Cash, Checking, CreditCard:
		return true
	}
	return false
}

func (k TransactionKind) Valid() bool {
	switch k {
	case Income, Expense:
		return true
	}
	return false
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return Validationf("account name cannot be empty")
	}
	if len(a.Name) > 100 {
		return Validationf("account name too long (max 100 characters)")
	}
	if !a.Kind.Valid() {
		return Validationf("invalid account kind %q", a.Kind)
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Validationf("category name cannot be empty")
	}
	if len(c.Name) > 100 {
		return Validationf("category name too long (max 100 characters)")
	}
	if !c.Kind.Valid() {
		return Validationf("invalid category kind %q", c.Kind)
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return Validationf("transaction description cannot be empty")
	}
	if len(t.Description) > 200 {
		return Validationf("transaction description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return Validationf("transaction date cannot be empty")
	}
	if t.Date.AfterToday() {
		return Validationf("transaction date %s cannot be in the future", t.Date)
	}
	if !t.Kind.Valid() {
		return Validationf("invalid transaction kind %q", t.Kind)
	}
	if t.AccountID <= 0 {
		return Validationf("transaction requires an account")
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return Validationf("recurring transaction description cannot be empty")
	}
	if len(r.Description) > 200 {
		return Validationf("recurring transaction description too long (max 200 characters)")
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Kind.Valid() {
		return Validationf("invalid recurring transaction kind %q", r.Kind)
	}
	if r.CategoryID <= 0 {
		return Validationf("recurring transaction requires a category")
	}
	if r.AccountID <= 0 {
		return Validationf("recurring transaction requires an account")
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return Validationf("day of month %d out of range 1-31", r.DayOfMonth)
	}
	if r.StartDate.IsZero() {
		return Validationf("recurring transaction start date cannot be empty")
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		return Validationf("end date %s before start date %s", r.EndDate, r.StartDate)
	}
	return nil
}

// ActiveAsOf reports whether the obligation is live at the given date:
// started, and either open-ended or not yet expired.
func (r RecurringTransaction) ActiveAsOf(d Date) bool {
	if r.StartDate.After(d.Time) {
		return false
	}
	return r.EndDate.IsZero() || !r.EndDate.Before(d.Time)
}

func (b Budget) Validate() error {
	if b.CategoryID <= 0 {
		return Validationf("budget requires a category")
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return Validationf("budget month %d out of range 1-12", b.Month)
	}
	if b.Year < 1 {
		return Validationf("budget year %d invalid", b.Year)
	}
	return nil
}
