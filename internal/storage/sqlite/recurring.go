package sqlite

import (
	"context"
	"database/sql"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type recurringRepo struct {
	s *Store
}

const recurringCols = "id, description, amount_cents, kind, category_id, account_id, day_of_month, start_date, end_date, last_processed"

func (r recurringRepo) Create(ctx context.Context, tx storage.Tx, rec *core.RecurringTransaction) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"INSERT INTO recurring_transactions (description, amount_cents, kind, category_id, account_id, day_of_month, start_date, end_date, last_processed) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		rec.Description, rec.Amount.Cents, string(rec.Kind), rec.CategoryID, rec.AccountID,
		rec.DayOfMonth, rec.StartDate.String(), dateArg(rec.EndDate), dateArg(rec.LastProcessed))
	if err != nil {
		return core.Persistencef("create recurring transaction: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Persistencef("create recurring transaction id: %v", err)
	}
	rec.ID = id
	return nil
}

func (r recurringRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.RecurringTransaction, error) {
	rows, err := r.query(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE id = ?", id)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if len(rows) == 0 {
		return core.RecurringTransaction{}, core.NotFoundf("recurring transaction %d", id)
	}
	return rows[0], nil
}

func (r recurringRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.RecurringTransaction, error) {
	return r.query(ctx, tx, "SELECT "+recurringCols+" FROM recurring_transactions ORDER BY id")
}

func (r recurringRepo) FindActiveAsOf(ctx context.Context, tx storage.Tx, date core.Date) ([]core.RecurringTransaction, error) {
	return r.query(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?) ORDER BY id",
		date.String(), date.String())
}

func (r recurringRepo) SearchByDescription(ctx context.Context, tx storage.Tx, term string) ([]core.RecurringTransaction, error) {
	return r.query(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE description LIKE ? ORDER BY id",
		"%"+term+"%")
}

func (r recurringRepo) Update(ctx context.Context, tx storage.Tx, rec core.RecurringTransaction) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"UPDATE recurring_transactions SET description = ?, amount_cents = ?, kind = ?, category_id = ?, account_id = ?, day_of_month = ?, start_date = ?, end_date = ?, last_processed = ? WHERE id = ?",
		rec.Description, rec.Amount.Cents, string(rec.Kind), rec.CategoryID, rec.AccountID,
		rec.DayOfMonth, rec.StartDate.String(), dateArg(rec.EndDate), dateArg(rec.LastProcessed), rec.ID)
	if err != nil {
		return core.Persistencef("update recurring transaction %d: %v", rec.ID, err)
	}
	return affected(res, "recurring transaction", rec.ID)
}

func (r recurringRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	res, err := r.s.q(tx).ExecContext(ctx, "DELETE FROM recurring_transactions WHERE id = ?", id)
	if err != nil {
		return core.Persistencef("delete recurring transaction %d: %v", id, err)
	}
	return affected(res, "recurring transaction", id)
}

func (r recurringRepo) query(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.RecurringTransaction, error) {
	rows, err := r.s.q(tx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query recurring transactions: %v", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var (
			rec        core.RecurringTransaction
			kind       string
			start      string
			end, last  sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount.Cents, &kind, &rec.CategoryID,
			&rec.AccountID, &rec.DayOfMonth, &start, &end, &last); err != nil {
			return nil, core.Persistencef("scan recurring transaction: %v", err)
		}
		rec.Kind = core.TransactionKind(kind)
		if rec.StartDate, err = core.ParseDate(start); err != nil {
			return nil, core.Persistencef("recurring transaction %d start date: %v", rec.ID, err)
		}
		if rec.EndDate, err = scanDate(end); err != nil {
			return nil, core.Persistencef("recurring transaction %d end date: %v", rec.ID, err)
		}
		if rec.LastProcessed, err = scanDate(last); err != nil {
			return nil, core.Persistencef("recurring transaction %d last processed: %v", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate recurring transactions: %v", err)
	}
	return out, nil
}
