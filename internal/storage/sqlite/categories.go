package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"moneta/internal/core"
	"moneta/internal/storage"
)

type categoryRepo struct {
	s *Store
}

func (r categoryRepo) Create(ctx context.Context, tx storage.Tx, c *core.Category) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"INSERT INTO categories (name, kind) VALUES (?, ?)", c.Name, string(c.Kind))
	if err != nil {
		return core.Persistencef("create category: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Persistencef("create category id: %v", err)
	}
	c.ID = id
	return nil
}

func (r categoryRepo) GetByID(ctx context.Context, tx storage.Tx, id int64) (core.Category, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT id, name, kind FROM categories WHERE id = ?", id)
	return scanCategoryRow(row, "category")
}

func (r categoryRepo) FindByName(ctx context.Context, tx storage.Tx, name string) (core.Category, error) {
	row := r.s.q(tx).QueryRowContext(ctx,
		"SELECT id, name, kind FROM categories WHERE name = ?", name)
	return scanCategoryRow(row, "category "+name)
}

func (r categoryRepo) ListAll(ctx context.Context, tx storage.Tx) ([]core.Category, error) {
	return r.query(ctx, tx, "SELECT id, name, kind FROM categories ORDER BY name")
}

func (r categoryRepo) SearchByName(ctx context.Context, tx storage.Tx, term string) ([]core.Category, error) {
	return r.query(ctx, tx,
		"SELECT id, name, kind FROM categories WHERE name LIKE ? ORDER BY name",
		"%"+term+"%")
}

func (r categoryRepo) Update(ctx context.Context, tx storage.Tx, c core.Category) error {
	res, err := r.s.q(tx).ExecContext(ctx,
		"UPDATE categories SET name = ?, kind = ? WHERE id = ?",
		c.Name, string(c.Kind), c.ID)
	if err != nil {
		return core.Persistencef("update category %d: %v", c.ID, err)
	}
	return affected(res, "category", c.ID)
}

func (r categoryRepo) Delete(ctx context.Context, tx storage.Tx, id int64) error {
	res, err := r.s.q(tx).ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return core.Persistencef("delete category %d: %v", id, err)
	}
	return affected(res, "category", id)
}

func (r categoryRepo) query(ctx context.Context, tx storage.Tx, q string, args ...any) ([]core.Category, error) {
	rows, err := r.s.q(tx).QueryContext(ctx, q, args...)
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

func scanCategoryRow(row *sql.Row, what string) (core.Category, error) {
	var c core.Category
	var kind string
	err := row.Scan(&c.ID, &c.Name, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.NotFoundf("%s", what)
	}
	if err != nil {
		return core.Category{}, core.Persistencef("scan %s: %v", what, err)
	}
	c.Kind = core.TransactionKind(kind)
	return c, nil
}
