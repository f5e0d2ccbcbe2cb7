package db

import (
	"context"
	"strconv"
	"strings"

	"github.com/library-api/backend/internal/model"
)

const bookColumns = `b.id, b.title, b.author, b.isbn, b.category_id, c.name,
	b.description, b.published_year, b.pages, b.available_copies, b.total_copies,
	b.created_at, b.updated_at`

// Sortable columns are whitelisted; anything else falls back to title.
var bookSortColumns = map[string]string{
	"title":          "b.title",
	"author":         "b.author",
	"published_year": "b.published_year",
	"created_at":     "b.created_at",
}

func scanBook(row interface{ Scan(dest ...any) error }) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.CategoryID,
		&b.CategoryName,
		&b.Description,
		&b.PublishedYear,
		&b.Pages,
		&b.AvailableCopies,
		&b.TotalCopies,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func bookFilterClause(filters model.BookFilters, args *[]any) string {
	conditions := []string{}

	if filters.Search != "" {
		*args = append(*args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(*args))
		conditions = append(conditions, "(b.title ILIKE $"+n+" OR b.author ILIKE $"+n+")")
	}
	if filters.CategoryID != 0 {
		*args = append(*args, filters.CategoryID)
		conditions = append(conditions, "b.category_id = $"+strconv.Itoa(len(*args)))
	}
	if filters.Author != "" {
		*args = append(*args, "%"+filters.Author+"%")
		conditions = append(conditions, "b.author ILIKE $"+strconv.Itoa(len(*args)))
	}

	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func (db *Postgres) ListBooks(ctx context.Context, filters model.BookFilters) ([]model.Book, error) {
	args := []any{}
	query := `SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.id` +
		bookFilterClause(filters, &args)

	sortBy, ok := bookSortColumns[filters.SortBy]
	if !ok {
		sortBy = "b.title"
	}
	order := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		order = "DESC"
	}
	query += " ORDER BY " + sortBy + " " + order

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
		args = append(args, filters.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := db.Pool.Query(ctx, query, args...)
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

func (db *Postgres) CountBooks(ctx context.Context, filters model.BookFilters) (int64, error) {
	args := []any{}
	query := `SELECT COUNT(*) FROM books b` + bookFilterClause(filters, &args)

	var total int64
	err := db.Pool.QueryRow(ctx, query, args...).Scan(&total)
	return total, err
}

func (db *Postgres) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.id = $1`
	return scanBook(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	totalCopies := 1
	if req.TotalCopies != nil {
		totalCopies = *req.TotalCopies
	}
	availableCopies := totalCopies
	if req.AvailableCopies != nil {
		availableCopies = *req.AvailableCopies
	}

	query := `
		INSERT INTO books
			(title, author, isbn, category_id, description, published_year, pages, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := db.Pool.QueryRow(ctx, query,
		req.Title,
		req.Author,
		req.ISBN,
		req.CategoryID,
		req.Description,
		req.PublishedYear,
		req.Pages,
		totalCopies,
		availableCopies,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return db.GetBookByID(ctx, id)
}

func (db *Postgres) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if req.Title != nil {
		add("title", *req.Title)
	}
	if req.Author != nil {
		add("author", *req.Author)
	}
	if req.ISBN != nil {
		add("isbn", *req.ISBN)
	}
	if req.CategoryID != nil {
		add("category_id", *req.CategoryID)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.PublishedYear != nil {
		add("published_year", *req.PublishedYear)
	}
	if req.Pages != nil {
		add("pages", *req.Pages)
	}
	if req.TotalCopies != nil {
		add("total_copies", *req.TotalCopies)
	}
	if req.AvailableCopies != nil {
		add("available_copies", *req.AvailableCopies)
	}
	if len(sets) == 0 {
		return db.GetBookByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := `UPDATE books SET ` + strings.Join(sets, ", ") + ` WHERE id = $` + strconv.Itoa(len(args))
	if _, err := db.Pool.Exec(ctx, query, args...); err != nil {
		return nil, err
	}
	return db.GetBookByID(ctx, id)
}

func (db *Postgres) DeleteBook(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
