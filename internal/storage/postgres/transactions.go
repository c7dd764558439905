package postgres

import (
	"context"
	"time"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type transactionRepo struct {
	s *Store
}

const transactionCols = "id, description, amount_cents, date, kind, category_id, account_id"

func (r transactionRepo) Create(ctx context.Context, tx storage.Tx, t *core.Transaction) error {
	err := r.s.q(tx).QueryRow(ctx,
		"INSERT INTO transactions (description, amount_cents, date, kind, category_id, account_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		t.Description, t.Amount.Cents, t.Date.Time, string(t.Kind), categoryArg(t.CategoryID), t.AccountID).Scan(&t.ID)
	if err != nil {
		return core.Persistencef("create transaction: %v", err)
	}
	return nil
}

func (r transactionRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Transaction, error) {
	rows, err := r.many(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE id = $1", id)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(rows) == 0 {
		return core.Transaction{}, core.NotFoundf("transaction %d", id)
	}
	return rows[0], nil
}

func (r transactionRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Transaction, error) {
	return r.many(ctx, tx, "SELECT "+transactionCols+" FROM transactions ORDER BY date, id")
}

func (r transactionRepo) FindByAccount(ctx context.Context, tx storage.Tx, accountID int64) ([]core.Transaction, error) {
	return r.many(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE account_id = $1 ORDER BY date, id",
		accountID)
}

func (r transactionRepo) FindByCategoryAndPeriod(ctx context.Context, tx storage.Tx, categoryID int64, month, year int) ([]core.Transaction, error) {
	from, to := core.MonthPeriod(year, month)
	return r.many(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE category_id = $1 AND date BETWEEN $2 AND $3 ORDER BY date, id",
		categoryID, from.Time, to.Time)
}

func (r transactionRepo) SearchByDescription(ctx context.Context, tx storage.Tx, term string) ([]core.Transaction, error) {
	return r.many(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE description ILIKE $1 ORDER BY date, id",
		"%"+term+"%")
}

func (r transactionRepo) Update(ctx context.Context, tx storage.Tx, t core.Transaction) error {
	tag, err := r.s.q(tx).Exec(ctx,
		"UPDATE transactions SET description = $1, amount_cents = $2, date = $3, kind = $4, category_id = $5, account_id = $6 WHERE id = $7",
		t.Description, t.Amount.Cents, t.Date.Time, string(t.Kind), categoryArg(t.CategoryID), t.AccountID, t.ID)
	if err != nil {
		return core.Persistencef("update transaction %d: %v", t.ID, err)
	}
	return affected(tag, "transaction", t.ID)
}

func (r transactionRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	tag, err := r.s.q(tx).Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return core.Persistencef("delete transaction %d: %v", id, err)
	}
	return affected(tag, "transaction", id)
}

func (r transactionRepo) many(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.s.q(tx).Query(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query transactions: %v", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t        core.Transaction
			date     time.Time
			kind     string
			category *int64
		)
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &date, &kind, &category, &t.AccountID); err != nil {
			return nil, core.Persistencef("scan transaction: %v", err)
		}
		t.Date = core.DateOf(date)
		t.Kind = core.TransactionKind(kind)
		t.CategoryID = category
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate transactions: %v", err)
	}
	return out, nil
}
