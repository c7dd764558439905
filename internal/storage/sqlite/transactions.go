package sqlite

import (
	"context"
	"database/sql"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type transactionRepo struct {
	s *Store
}

const transactionCols = "id, description, amount_cents, date, kind, category_id, account_id"

func (r transactionRepo) Create(ctx context.Context, tx storage.Tx, t *core.Transaction) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"INSERT INTO transactions (description, amount_cents, date, kind, category_id, account_id) VALUES (?, ?, ?, ?, ?, ?)",
		t.Description, t.Amount.Cents, t.Date.String(), string(t.Kind), categoryArg(t.CategoryID), t.AccountID)
	if err != nil {
		return core.Persistencef("create transaction: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Persistencef("create transaction id: %v", err)
	}
	t.ID = id
	return nil
}

func (r transactionRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Transaction, error) {
	rows, err := r.query(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE id = ?", id)
	if err != nil {
		return core.Transaction{}, err
	}
	if len(rows) == 0 {
		return core.Transaction{}, core.NotFoundf("transaction %d", id)
	}
	return rows[0], nil
}

func (r transactionRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Transaction, error) {
	return r.query(ctx, tx, "SELECT "+transactionCols+" FROM transactions ORDER BY date, id")
}

func (r transactionRepo) FindByAccount(ctx context.Context, tx storage.Tx, accountID int64) ([]core.Transaction, error) {
	return r.query(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE account_id = ? ORDER BY date, id",
		accountID)
}

func (r transactionRepo) FindByCategoryAndPeriod(ctx context.Context, tx storage.Tx, categoryID int64, month, year int) ([]core.Transaction, error) {
	from, to := core.MonthPeriod(year, month)
	return r.query(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE category_id = ? AND date BETWEEN ? AND ? ORDER BY date, id",
		categoryID, from.String(), to.String())
}

func (r transactionRepo) SearchByDescription(ctx context.Context, tx storage.Tx, term string) ([]core.Transaction, error) {
	return r.query(ctx, tx,
		"SELECT "+transactionCols+" FROM transactions WHERE description LIKE ? ORDER BY date, id",
		"%"+term+"%")
}

func (r transactionRepo) Update(ctx context.Context, tx storage.Tx, t core.Transaction) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"UPDATE transactions SET description = ?, amount_cents = ?, date = ?, kind = ?, category_id = ?, account_id = ? WHERE id = ?",
		t.Description, t.Amount.Cents, t.Date.String(), string(t.Kind), categoryArg(t.CategoryID), t.AccountID, t.ID)
	if err != nil {
		return core.Persistencef("update transaction %d: %v", t.ID, err)
	}
	return affected(res, "transaction", t.ID)
}

func (r transactionRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	res, err := r.s.q(tx).ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return core.Persistencef("delete transaction %d: %v", id, err)
	}
	return affected(res, "transaction", id)
}

func (r transactionRepo) query(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.s.q(tx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query transactions: %v", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate transactions: %v", err)
	}
	return out, nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, error) {
	var (
		t        core.Transaction
		date     string
		kind     string
		category sql.NullInt64
	)
	if err := rows.Scan(&t.ID, &t.Description, &t.Amount.Cents, &date, &kind, &category, &t.AccountID); err != nil {
		return core.Transaction{}, core.Persistencef("scan transaction: %v", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, core.Persistencef("transaction %d date: %v", t.ID, err)
	}
	t.Date = d
	t.Kind = core.TransactionKind(kind)
	t.CategoryID = scanCategory(category)
	return t, nil
}
