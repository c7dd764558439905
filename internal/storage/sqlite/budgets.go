package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type budgetRepo struct {
	s *Store
}

const budgetCols = "id, category_id, limit_cents, month, year"

func (r budgetRepo) Create(ctx context.Context, tx storage.Tx, b *core.Budget) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"INSERT INTO budgets (category_id, limit_cents, month, year) VALUES (?, ?, ?, ?)",
		b.CategoryID, b.Limit.Cents, b.Month, b.Year)
	if err != nil {
		return core.Persistencef("create budget: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Persistencef("create budget id: %v", err)
	}
	b.ID = id
	return nil
}

func (r budgetRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Budget, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT "+budgetCols+" FROM budgets WHERE id = ?", id)
	return scanBudget(row)
}

func (r budgetRepo) FindByCategoryAndPeriod(ctx context.Context, tx storage.Tx, categoryID int64, month, year int) (core.Budget, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT "+budgetCols+" FROM budgets WHERE category_id = ? AND month = ? AND year = ?",
		categoryID, month, year)
	return scanBudget(row)
}

func (r budgetRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Budget, error) {
	return r.query(ctx, tx, "SELECT "+budgetCols+" FROM budgets ORDER BY year, month, id")
}

func (r budgetRepo) ListByPeriod(ctx context.Context, tx storage.Tx, month, year int) ([]core.Budget, error) {
	return r.query(ctx, tx,
		"SELECT "+budgetCols+" FROM budgets WHERE month = ? AND year = ? ORDER BY id",
		month, year)
}

func (r budgetRepo) Update(ctx context.Context, tx storage.Tx, b core.Budget) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"UPDATE budgets SET category_id = ?, limit_cents = ?, month = ?, year = ? WHERE id = ?",
		b.CategoryID, b.Limit.Cents, b.Month, b.Year, b.ID)
	if err != nil {
		return core.Persistencef("update budget %d: %v", b.ID, err)
	}
	return affected(res, "budget", b.ID)
}

func (r budgetRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	res, err := r.s.q(tx).ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return core.Persistencef("delete budget %d: %v", id, err)
	}
	return affected(res, "budget", id)
}

func (r budgetRepo) query(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Budget, error) {
	rows, err := r.s.q(tx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query budgets: %v", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Limit.Cents, &b.Month, &b.Year); err != nil {
			return nil, core.Persistencef("scan budget: %v", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate budgets: %v", err)
	}
	return out, nil
}

func scanBudget(row *sql.Row) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.CategoryID, &b.Limit.Cents, &b.Month, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.NotFoundf("budget")
	}
	if err != nil {
		return core.Budget{}, core.Persistencef("scan budget: %v", err)
	}
	return b, nil
}
