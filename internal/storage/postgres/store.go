// Package postgres implements the persistence gateway on PostgreSQL via
// jackc/pgx.
package postgres

import (
	"context"
	"time"

	"moneta/internal/core"
	"moneta/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL-backed storage.Gateway.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Gateway = (*Store)(nil)

// Open connects to the database, runs migrations, and returns a ready
// gateway. databaseURL is a standard postgres:// connection string.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if err := runMigrations(databaseURL); err != nil {
		return nil, core.Persistencef("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, core.Persistencef("connect to postgres: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, core.Persistencef("ping postgres: %v", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Begin opens a unit of work.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	t, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, core.Persistencef("begin unit of work: %v", err)
	}
	return &unit{tx: t}, nil
}

func (s *Store) Accounts() storage.AccountRepository         { return accountRepo{s} }
func (s *Store) Categories() storage.CategoryRepository      { return categoryRepo{s} }
func (s *Store) Transactions() storage.TransactionRepository { return transactionRepo{s} }
func (s *Store) Recurring() storage.RecurringRepository      { return recurringRepo{s} }
func (s *Store) Budgets() storage.BudgetRepository           { return budgetRepo{s} }

type unit struct {
	tx pgx.Tx
}

func (u *unit) Commit() error   { return u.tx.Commit(context.Background()) }
func (u *unit) Rollback() error { return u.tx.Rollback(context.Background()) }

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) q(tx storage.Tx) querier {
	if tx == nil {
		return s.pool
	}
	return tx.(*unit).tx
}

// date column helpers: postgres DATE maps to time.Time, NULL to nil.

func dateArg(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.Time
}

func scanDate(t *time.Time) core.Date {
	if t == nil {
		return core.Date{}
	}
	return core.DateOf(*t)
}

func categoryArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
