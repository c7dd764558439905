// Package sqlite implements the persistence gateway on an embedded SQLite
// database via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"moneta/internal/core"
	"moneta/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is the SQLite-backed storage.Gateway.
type Store struct {
	db *sql.DB
}

var _ storage.Gateway = (*Store)(nil)

// Open creates the database file if needed, runs migrations, and returns a
// ready gateway. Foreign keys are enabled per connection via the DSN pragma;
// account deletion cascades rely on it.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Begin opens a unit of work.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.Persistencef("begin unit of work: %v", err)
	}
	return &unit{Tx: t}, nil
}

func (s *Store) Accounts() storage.AccountRepository         { return accountRepo{s} }
func (s *Store) Categories() storage.CategoryRepository      { return categoryRepo{s} }
func (s *Store) Transactions() storage.TransactionRepository { return transactionRepo{s} }
func (s *Store) Recurring() storage.RecurringRepository      { return recurringRepo{s} }
func (s *Store) Budgets() storage.BudgetRepository           { return budgetRepo{s} }

// unit wraps *sql.Tx; Commit and Rollback are promoted.
type unit struct {
	*sql.Tx
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q resolves the execution target: the open unit when one is passed, the
// auto-committing pool otherwise.
func (s *Store) q(tx storage.Tx) querier {
	if tx == nil {
		return s.db
	}
	return tx.(*unit).Tx
}

// date column helpers: days are stored as YYYY-MM-DD text, empty meaning NULL.

func dateArg(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func scanDate(s sql.NullString) (core.Date, error) {
	if !s.Valid || s.String == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s.String)
}

func categoryArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func scanCategory(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}
