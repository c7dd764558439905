package postgres

import (
	"context"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type accountRepo struct {
	s *Store
}

const accountCols = "id, name, opening_balance_cents, kind"

func (r accountRepo) Create(ctx context.Context, tx storage.Tx, a *core.Account) error {
	err := r.s.q(tx).QueryRow(ctx,
		"INSERT INTO accounts (name, opening_balance_cents, kind) VALUES ($1, $2, $3) RETURNING id",
		a.Name, a.OpeningBalance.Cents, string(a.Kind)).Scan(&a.ID)
	if err != nil {
		return core.Persistencef("create account: %v", err)
	}
	return nil
}

func (r accountRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Account, error) {
	return r.one(ctx, tx, "SELECT "+accountCols+" FROM accounts WHERE id = $1", id)
}

func (r accountRepo) FindByName(ctx context.Context, tx storage.Tx, name string) (core.Account, error) {
	return r.one(ctx, tx, "SELECT "+accountCols+" FROM accounts WHERE name = $1", name)
}

func (r accountRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Account, error) {
	return r.many(ctx, tx, "SELECT "+accountCols+" FROM accounts ORDER BY name")
}

func (r accountRepo) SearchByName(ctx context.Context, tx storage.Tx, term string) ([]core.Account, error) {
	return r.many(ctx, tx,
		"SELECT "+accountCols+" FROM accounts WHERE name ILIKE $1 ORDER BY name",
		"%"+term+"%")
}

func (r accountRepo) Update(ctx context.Context, tx storage.Tx, a core.Account) error {
	tag, err := r.s.q(tx).Exec(ctx,
		"UPDATE accounts SET name = $1, opening_balance_cents = $2, kind = $3 WHERE id = $4",
		a.Name, a.OpeningBalance.Cents, string(a.Kind), a.ID)
	if err != nil {
		return core.Persistencef("update account %d: %v", a.ID, err)
	}
	return affected(tag, "account", a.ID)
}

func (r accountRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	tag, err := r.s.q(tx).Exec(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return core.Persistencef("delete account %d: %v", id, err)
	}
	return affected(tag, "account", id)
}

func (r accountRepo) one(ctx context.Context, tx storage.Tx, q string, args ...any) (core.Account, error) {
	var a core.Account
	var kind string
	err := r.s.q(tx).QueryRow(ctx, q, args...).Scan(&a.ID, &a.Name, &a.OpeningBalance.Cents, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Account{}, core.NotFoundf("account")
	}
	if err != nil {
		return core.Account{}, core.Persistencef("scan account: %v", err)
	}
	a.Kind = core.AccountKind(kind)
	return a, nil
}

func (r accountRepo) many(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Account, error) {
	rows, err := r.s.q(tx).Query(ctx, q, args...)
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

// affected maps a zero-row write to core.ErrNotFound.
func affected(tag pgconn.CommandTag, entity string, id int64) error {
	if tag.RowsAffected() == 0 {
		return core.NotFoundf("%s %d", entity, id)
	}
	return nil
}
