package postgres

import (
	"context"
	"time"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type recurringRepo struct {
	s *Store
}

const recurringCols = "id, description, amount_cents, kind, category_id, account_id, day_of_month, start_date, end_date, last_processed"

func (r recurringRepo) Create(ctx context.Context, tx storage.Tx, rec *core.RecurringTransaction) error {
	err := r.s.q(tx).QueryRow(ctx,
		"INSERT INTO recurring_transactions (description, amount_cents, kind, category_id, account_id, day_of_month, start_date, end_date, last_processed) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id",
		rec.Description, rec.Amount.Cents, string(rec.Kind), rec.CategoryID, rec.AccountID,
		rec.DayOfMonth, rec.StartDate.Time, dateArg(rec.EndDate), dateArg(rec.LastProcessed)).Scan(&rec.ID)
	if err != nil {
		return core.Persistencef("create recurring transaction: %v", err)
	}
	return nil
}

func (r recurringRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.RecurringTransaction, error) {
	rows, err := r.many(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE id = $1", id)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	if len(rows) == 0 {
		return core.RecurringTransaction{}, core.NotFoundf("recurring transaction %d", id)
	}
	return rows[0], nil
}

func (r recurringRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.RecurringTransaction, error) {
	return r.many(ctx, tx, "SELECT "+recurringCols+" FROM recurring_transactions ORDER BY id")
}

func (r recurringRepo) FindActiveAsOf(ctx context.Context, tx storage.Tx, date core.Date) ([]core.RecurringTransaction, error) {
	return r.many(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $1) ORDER BY id",
		date.Time)
}

func (r recurringRepo) SearchByDescription(ctx context.Context, tx storage.Tx, term string) ([]core.RecurringTransaction, error) {
	return r.many(ctx, tx,
		"SELECT "+recurringCols+" FROM recurring_transactions WHERE description ILIKE $1 ORDER BY id",
		"%"+term+"%")
}

func (r recurringRepo) Update(ctx context.Context, tx storage.Tx, rec core.RecurringTransaction) error {
	tag, err := r.s.q(tx).Exec(ctx,
		"UPDATE recurring_transactions SET description = $1, amount_cents = $2, kind = $3, category_id = $4, account_id = $5, day_of_month = $6, start_date = $7, end_date = $8, last_processed = $9 WHERE id = $10",
		rec.Description, rec.Amount.Cents, string(rec.Kind), rec.CategoryID, rec.AccountID,
		rec.DayOfMonth, rec.StartDate.Time, dateArg(rec.EndDate), dateArg(rec.LastProcessed), rec.ID)
	if err != nil {
		return core.Persistencef("update recurring transaction %d: %v", rec.ID, err)
	}
	return affected(tag, "recurring transaction", rec.ID)
}

func (r recurringRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	tag, err := r.s.q(tx).Exec(ctx, "DELETE FROM recurring_transactions WHERE id = $1", id)
	if err != nil {
		return core.Persistencef("delete recurring transaction %d: %v", id, err)
	}
	return affected(tag, "recurring transaction", id)
}

func (r recurringRepo) many(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.RecurringTransaction, error) {
	rows, err := r.s.q(tx).Query(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query recurring transactions: %v", err)
	}
	defer rows.Close()

	var out []core.RecurringTransaction
	for rows.Next() {
		var (
			rec       core.RecurringTransaction
			kind      string
			start     time.Time
			end, last *time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount.Cents, &kind, &rec.CategoryID,
			&rec.AccountID, &rec.DayOfMonth, &start, &end, &last); err != nil {
			return nil, core.Persistencef("scan recurring transaction: %v", err)
		}
		rec.Kind = core.TransactionKind(kind)
		rec.StartDate = core.DateOf(start)
		rec.EndDate = scanDate(end)
		rec.LastProcessed = scanDate(last)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate recurring transactions: %v", err)
	}
	return out, nil
}
