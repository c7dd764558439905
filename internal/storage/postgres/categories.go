package postgres

import (
	"context"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"

	"github.com/jackc/pgx/v5"
)

type categoryRepo struct {
	s *Store
}

func (r categoryRepo) Create(ctx context.Context, tx storage.Tx, c *core.Category) error {
	err := r.s.q(tx).QueryRow(ctx,
		"INSERT INTO categories (name, kind) VALUES ($1, $2) RETURNING id",
		c.Name, string(c.Kind)).Scan(&c.ID)
	if err != nil {
		return core.Persistencef("create category: %v", err)
	}
	return nil
}

func (r categoryRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Category, error) {
	return r.one(ctx, tx, "SELECT id, name, kind FROM categories WHERE id = $1", id)
}

func (r categoryRepo) FindByName(ctx context.Context, tx storage.Tx, name string) (core.Category, error) {
	return r.one(ctx, tx, "SELECT id, name, kind FROM categories WHERE name = $1", name)
}

func (r categoryRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Category, error) {
	return r.many(ctx, tx, "SELECT id, name, kind FROM categories ORDER BY name")
}

func (r categoryRepo) SearchByName(ctx context.Context, tx storage.Tx, term string) ([]core.Category, error) {
	return r.many(ctx, tx,
		"SELECT id, name, kind FROM categories WHERE name ILIKE $1 ORDER BY name",
		"%"+term+"%")
}

func (r categoryRepo) Update(ctx context.Context, tx storage.Tx, c core.Category) error {
	tag, err := r.s.q(tx).Exec(ctx,
		"UPDATE categories SET name = $1, kind = $2 WHERE id = $3",
		c.Name, string(c.Kind), c.ID)
	if err != nil {
		return core.Persistencef("update category %d: %v", c.ID, err)
	}
	return affected(tag, "category", c.ID)
}

func (r categoryRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	tag, err := r.s.q(tx).Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return core.Persistencef("delete category %d: %v", id, err)
	}
	return affected(tag, "category", id)
}

func (r categoryRepo) one(ctx context.Context, tx storage.Tx, q string, args ...any) (core.Category, error) {
	var c core.Category
	var kind string
	err := r.s.q(tx).QueryRow(ctx, q, args...).Scan(&c.ID, &c.Name, &kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, core.NotFoundf("category")
	}
	if err != nil {
		return core.Category{}, core.Persistencef("scan category: %v", err)
	}
	c.Kind = core.TransactionKind(kind)
	return c, nil
}

func (r categoryRepo) many(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Category, error) {
	rows, err := r.s.q(tx).Query(ctx, q, args...)
	if err != nil {
		return nil, core.Persistencef("query categories: %v", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var kind string
		if err := rows.Scan(&c.ID, &c.Name, &kind); err != nil {
			return nil, core.Persistencef("scan category: %v", err)
		}
		c.Kind = core.TransactionKind(kind)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.Persistencef("iterate categories: %v", err)
	}
	return out, nil
}
