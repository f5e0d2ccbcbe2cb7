package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/library-api/backend/internal/model"
)

const categoryColumns = `id, name, description, created_at, updated_at`

func scanCategory(row interface{ Scan(dest ...any) error }) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (db *Postgres) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (db *Postgres) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(db.Pool.QueryRow(ctx, query, id))
}

// GetCategoryBooks returns the books shelved under one category.
func (db *Postgres) GetCategoryBooks(ctx context.Context, id int64) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.category_id = $1
		ORDER BY b.title ASC`
	rows, err := db.Pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, rows.Err()
}

func (db *Postgres) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING ` + categoryColumns
	return scanCategory(db.Pool.QueryRow(ctx, query, req.Name, req.Description))
}

func (db *Postgres) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if len(sets) == 0 {
		return db.GetCategoryByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := `UPDATE categories SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + categoryColumns
	return scanCategory(db.Pool.QueryRow(ctx, query, args...))
}

func (db *Postgres) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
