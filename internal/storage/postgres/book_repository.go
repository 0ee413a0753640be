package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const bookDetailColumns = `
SELECT b.id, b.title, b.author, b.publisher, b.year, b.stock, b.category_id, b.created_at,
       COALESCE(c.name, '') AS category
FROM books b
LEFT JOIN categories c ON b.category_id = c.id`

func (r *BookRepository) ListBooks(ctx context.Context) ([]domain.BookDetail, error) {
	const query = bookDetailColumns + `
ORDER BY b.created_at DESC`
	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	return scanBookDetails(rows)
}

func (r *BookRepository) SearchBooks(ctx context.Context, keyword string) ([]domain.BookDetail, error) {
	const query = bookDetailColumns + `
WHERE b.title ILIKE $1 OR b.author ILIKE $1
ORDER BY b.created_at DESC`
	rows, err := r.query(ctx, query, "%"+keyword+"%")
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()
	return scanBookDetails(rows)
}

func (r *BookRepository) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	const stmt = `
INSERT INTO books (title, author, publisher, year, stock, category_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	err := r.queryRow(ctx, stmt,
		book.Title, book.Author, book.Publisher, book.Year, book.Stock, book.CategoryID,
	).Scan(&book.ID, &book.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Book{}, domain.ErrCategoryNotFound
		}
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}
	return book, nil
}

func (r *BookRepository) UpdateBook(ctx context.Context, book domain.Book) error {
	const stmt = `
UPDATE books
SET title = $2, author = $3, publisher = $4, year = $5, stock = $6, category_id = $7
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		book.ID, book.Title, book.Author, book.Publisher, book.Year, book.Stock, book.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) DeleteBook(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrBookHasLoans
		}
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// AdjustStock applies delta to a book's stock in one statement and
// returns the new value. The predicate keeps stock from ever dipping
// below zero, regardless of concurrent adjustments.
func (r *BookRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	return adjustStock(ctx, r, id, delta)
}

type rowQuerier interface {
	queryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func adjustStock(ctx context.Context, q rowQuerier, id int64, delta int) (int, error) {
	const stmt = `
UPDATE books
SET stock = stock + $2
WHERE id = $1 AND stock + $2 >= 0
RETURNING stock`

	var stock int
	err := q.queryRow(ctx, stmt, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	var exists bool
	if err := q.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check book: %w", err)
	}
	if !exists {
		return 0, domain.ErrBookNotFound
	}
	return 0, domain.ErrNegativeStock
}

func (r *BookRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate categories: %w", rows.Err())
	}
	return categories, nil
}

func (r *BookRepository) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	err := r.queryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).
		Scan(&category.ID)
	if err != nil {
		return domain.Category{}, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func scanBookDetails(rows pgx.Rows) ([]domain.BookDetail, error) {
	var books []domain.BookDetail
	for rows.Next() {
		var b domain.BookDetail
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Year, &b.Stock,
			&b.CategoryID, &b.CreatedAt, &b.Category,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate books: %w", rows.Err())
	}
	return books, nil
}

func (r *BookRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *BookRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
