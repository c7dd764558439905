package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type accountRepo struct {
	s *Store
}

const accountCols = "id, name, opening_balance_cents, kind"

func (r accountRepo) Create(ctx context.Context, tx storage.Tx, a *core.Account) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"INSERT INTO accounts (name, opening_balance_cents, kind) VALUES (?, ?, ?)",
		a.Name, a.OpeningBalance.Cents, string(a.Kind))
	if err != nil {
		return core.Persistencef("create account: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Persistencef("create account id: %v", err)
	}
	a.ID = id
	return nil
}

func (r accountRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Account, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE id = ?", id)
	return scanAccount(row, "account")
}

func (r accountRepo) FindByName(ctx context.Context, tx storage.Tx, name string) (core.Account, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT "+accountCols+" FROM accounts WHERE name = ?", name)
	return scanAccount(row, "account "+name)
}

func (r accountRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Account, error) {
	return r.query(ctx, tx, "SELECT "+accountCols+" FROM accounts ORDER BY name")
}

func (r accountRepo) SearchByName(ctx context.Context, tx storage.Tx, term string) ([]core.Account, error) {
	return r.query(ctx, tx,
		"SELECT "+accountCols+" FROM accounts WHERE name LIKE ? ORDER BY name",
		"%"+term+"%")
}

func (r accountRepo) Update(ctx context.Context, tx storage.Tx, a core.Account) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"UPDATE accounts SET name = ?, opening_balance_cents = ?, kind = ? WHERE id = ?",
		a.Name, a.OpeningBalance.Cents, string(a.Kind), a.ID)
	if err != nil {
		return core.Persistencef("update account %d: %v", a.ID, err)
	}
	return affected(res, "account", a.ID)
}

func (r accountRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	res, err := r.s.q(tx).ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return core.Persistencef("delete account %d: %v", id, err)
	}
	return affected(res, "account", id)
}

func (r accountRepo) query(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Account, error) {
	rows, err := r.s.q(tx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query accounts: %v", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &a.OpeningBalance.Cents, &kind); err != nil {
			return nil, core.Persistencef("scan account: %v", err)
		}
		a.Kind = core.AccountKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate accounts: %v", err)
	}
	return out, nil
}

func scanAccount(row *sql.Row, what string) (core.Account, error) {
	var a core.Account
	var kind string
	err := row.Scan(&a.ID, &a.Name, &a.OpeningBalance.Cents, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.NotFoundf("%s", what)
	}
	if err != nil {
		return core.Account{}, core.Persistencef("scan %s: %v", what, err)
	}
	a.Kind = core.AccountKind(kind)
	return a, nil
}

// affected maps a zero-row write to core.ErrNotFound.
func affected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return core.Persistencef("%s %d rows affected: %v", entity, id, err)
	}
	if n == 0 {
		return core.NotFoundf("%s %d", entity, id)
	}
	return nil
}
