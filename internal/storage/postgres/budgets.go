package postgres

import (
	"context"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"

	"github.com/jackc/pgx/v5"
)

type budgetRepo struct {
	s *Store
}

const budgetCols = "id, category_id, limit_cents, month, year"

func (r budgetRepo) Create(ctx context.Context, tx storage.Tx, b *core.Budget) error {
	err := r.s.q(tx).QueryRow(ctx,
		"INSERT INTO budgets (category_id, limit_cents, month, year) VALUES ($1, $2, $3, $4) RETURNING id",
		b.CategoryID, b.Limit.Cents, b.Month, b.Year).Scan(&b.ID)
	if err != nil {
		return core.Persistencef("create budget: %v", err)
	}
	return nil
}

func (r budgetRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Budget, error) {
	return r.one(ctx, tx, "SELECT "+budgetCols+" FROM budgets WHERE id = $1", id)
}

func (r budgetRepo) FindByCategoryAndPeriod(ctx context.Context, tx storage.Tx, categoryID int64, month, year int) (core.Budget, error) {
	return r.one(ctx, tx,
		"SELECT "+budgetCols+" FROM budgets WHERE category_id = $1 AND month = $2 AND year = $3",
		categoryID, month, year)
}

func (r budgetRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Budget, error) {
	return r.many(ctx, tx, "SELECT "+budgetCols+" FROM budgets ORDER BY year, month, id")
}

func (r budgetRepo) ListByPeriod(ctx context.Context, tx storage.Tx, month, year int) ([]core.Budget, error) {
	return r.many(ctx, tx,
		"SELECT "+budgetCols+" FROM budgets WHERE month = $1 AND year = $2 ORDER BY id",
		month, year)
}

func (r budgetRepo) Update(ctx context.Context, tx storage.Tx, b core.Budget) error {
	tag, err := r.s.q(tx).Exec(ctx,
		"UPDATE budgets SET category_id = $1, limit_cents = $2, month = $3, year = $4 WHERE id = $5",
		b.CategoryID, b.Limit.Cents, b.Month, b.Year, b.ID)
	if err != nil {
		return core.Persistencef("update budget %d: %v", b.ID, err)
	}
	return affected(tag, "budget", b.ID)
}

func (r budgetRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	tag, err := r.s.q(tx).Exec(ctx, "DELETE FROM budgets WHERE id = $1", id)
	if err != nil {
		return core.Persistencef("delete budget %d: %v", id, err)
	}
	return affected(tag, "budget", id)
}

func (r budgetRepo) one(ctx context.Context, tx storage.Tx, q string, args ...any) (core.Budget, error) {
	var b core.Budget
	err := r.s.q(tx).QueryRow(ctx, q, args...).Scan(&b.ID, &b.CategoryID, &b.Limit.Cents, &b.Month, &b.Year)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Budget{}, core.NotFoundf("budget")
	}
	if err != nil {
		return core.Budget{}, core.Persistencef("scan budget: %v", err)
	}
	return b, nil
}

func (r budgetRepo) many(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Budget, error) {
	rows, err := r.s.q(tx).Query(ctx, q, args...)
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
