// Package storage defines the persistence gateway the kernel runs against:
// a generic repository interface per entity plus a unit-of-work primitive.
// Implementations live in storage/sqlite and storage/postgres.
package storage

import (
	"context"

	"moneta/internal/core"
)

// Tx is an open unit of work. Every repository method takes one explicitly;
// passing nil runs the statement on the pool at its default isolation, which
// is how reads observe state (possibly stale relative to a committing write).
type Tx interface {
	Commit() error
	Rollback() error
}

// UnitOfWork opens atomic write scopes. A unit either commits as a whole or
// is rolled back as a whole; partial writes are never observable outside it.
type UnitOfWork interface {
	Begin(ctx context.Context) (Tx, error)
}

// Repository is the generic CRUD surface shared by every entity. E is the
// entity type, ID its identifier type. Create assigns the generated id back
// onto the entity. GetByID reports a missing row as core.ErrNotFound.
type Repository[E any, ID comparable] interface {
	Create(ctx context.Context, tx Tx, e *E) error
	GetByID(ctx context.Context, tx Tx, id ID) (E, error)
	ListAll(ctx context.Context, tx Tx) ([]E, error)
	Update(ctx context.Context, tx Tx, e E) error
	Delete(ctx context.Context, tx Tx, id ID) error
}

type AccountRepository interface {
	Repository[core.Account, int64]
	// FindByName resolves an account by its unique name, core.ErrNotFound
	// when absent.
	FindByName(ctx context.Context, tx Tx, name string) (core.Account, error)
	SearchByName(ctx context.Context, tx Tx, term string) ([]core.Account, error)
}

type CategoryRepository interface {
	Repository[core.Category, int64]
	FindByName(ctx context.Context, tx Tx, name string) (core.Category, error)
	SearchByName(ctx context.Context, tx Tx, term string) ([]core.Category, error)
}

type TransactionRepository interface {
	Repository[core.Transaction, int64]
	FindByAccount(ctx context.Context, tx Tx, accountID int64) ([]core.Transaction, error)
	// FindByCategoryAndPeriod returns the category's transactions dated
	// inside the given calendar month.
	FindByCategoryAndPeriod(ctx context.Context, tx Tx, categoryID int64, month, year int) ([]core.Transaction, error)
	SearchByDescription(ctx context.Context, tx Tx, term string) ([]core.Transaction, error)
}

type RecurringRepository interface {
	Repository[core.RecurringTransaction, int64]
	// FindActiveAsOf returns obligations whose start date is on or before
	// the given date and whose end date is unset or on or after it.
	FindActiveAsOf(ctx context.Context, tx Tx, date core.Date) ([]core.RecurringTransaction, error)
	SearchByDescription(ctx context.Context, tx Tx, term string) ([]core.RecurringTransaction, error)
}

type BudgetRepository interface {
	Repository[core.Budget, int64]
	// FindByCategoryAndPeriod returns the single budget for (category,
	// month, year), core.ErrNotFound when none is configured.
	FindByCategoryAndPeriod(ctx context.Context, tx Tx, categoryID int64, month, year int) (core.Budget, error)
	ListByPeriod(ctx context.Context, tx Tx, month, year int) ([]core.Budget, error)
}

// Gateway aggregates the repositories and the unit-of-work primitive. It is
// the only surface the kernel touches for persistence.
type Gateway interface {
	UnitOfWork
	Accounts() AccountRepository
	Categories() CategoryRepository
	Transactions() TransactionRepository
	Recurring() RecurringRepository
	Budgets() BudgetRepository
	Close() error
}
