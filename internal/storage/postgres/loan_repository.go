package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

func (r *LoanRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetMemberForUpdate locks the member row for the duration of the
// transaction, serializing the loan-limit check per member.
func (r *LoanRepository) GetMemberForUpdate(ctx context.Context, memberID int64) (domain.Member, error) {
	const query = `
SELECT id, member_code, name, email, phone, address, is_active, created_at
FROM members
WHERE id = $1
FOR UPDATE`

	var m domain.Member
	err := r.queryRow(ctx, query, memberID).Scan(
		&m.ID, &m.MemberCode, &m.Name, &m.Email, &m.Phone, &m.Address, &m.IsActive, &m.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Member{}, domain.ErrMemberNotFound
		}
		return domain.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// GetBookForUpdate locks the book row, serializing stock checks per book.
func (r *LoanRepository) GetBookForUpdate(ctx context.Context, bookID int64) (domain.Book, error) {
	const query = `
SELECT id, title, author, publisher, year, stock, category_id, created_at
FROM books
WHERE id = $1
FOR UPDATE`

	var b domain.Book
	err := r.queryRow(ctx, query, bookID).Scan(
		&b.ID, &b.Title, &b.Author, &b.Publisher, &b.Year, &b.Stock, &b.CategoryID, &b.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Book{}, domain.ErrBookNotFound
		}
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

func (r *LoanRepository) HasActiveLoan(ctx context.Context, bookID, memberID int64) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM loans
	WHERE book_id = $1 AND member_id = $2 AND status = 'borrowed'
)`

	var exists bool
	if err := r.queryRow(ctx, query, bookID, memberID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active loan: %w", err)
	}
	return exists, nil
}

func (r *LoanRepository) CountActiveLoans(ctx context.Context, memberID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM loans WHERE member_id = $1 AND status = 'borrowed'`

	var count int
	if err := r.queryRow(ctx, query, memberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active loans: %w", err)
	}
	return count, nil
}

func (r *LoanRepository) CreateLoan(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	const stmt = `
INSERT INTO loans (book_id, member_id, loan_date, status)
VALUES ($1, $2, $3, $4)
RETURNING id`

	err := r.queryRow(ctx, stmt, loan.BookID, loan.MemberID, loan.LoanDate, loan.Status).
		Scan(&loan.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Loan{}, domain.ErrDuplicateActiveLoan
		}
		return domain.Loan{}, fmt.Errorf("create loan: %w", err)
	}
	return loan, nil
}

// GetLoanForUpdate locks the loan row so concurrent returns of the same
// loan cannot both observe it as borrowed.
func (r *LoanRepository) GetLoanForUpdate(ctx context.Context, loanID int64) (domain.Loan, error) {
	const query = `
SELECT id, book_id, member_id, loan_date, return_date, status
FROM loans
WHERE id = $1
FOR UPDATE`

	var l domain.Loan
	err := r.queryRow(ctx, query, loanID).Scan(
		&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.ReturnDate, &l.Status,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Loan{}, domain.ErrLoanNotFound
		}
		return domain.Loan{}, fmt.Errorf("get loan: %w", err)
	}
	return l, nil
}

func (r *LoanRepository) CloseLoan(ctx context.Context, loanID int64, returnDate time.Time, status domain.LoanStatus) error {
	const stmt = `UPDATE loans SET return_date = $2, status = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, loanID, returnDate, status)
	if err != nil {
		return fmt.Errorf("close loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func (r *LoanRepository) AdjustStock(ctx context.Context, bookID int64, delta int) (int, error) {
	return adjustStock(ctx, r, bookID, delta)
}

func (r *LoanRepository) ListLoans(ctx context.Context) ([]domain.LoanDetail, error) {
	const query = `
SELECT l.id, b.title, m.name, m.member_code, l.loan_date, l.return_date, l.status
FROM loans l
JOIN books b ON l.book_id = b.id
JOIN members m ON l.member_id = m.id
ORDER BY l.loan_date DESC, l.id DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	var loans []domain.LoanDetail
	for rows.Next() {
		var l domain.LoanDetail
		if err := rows.Scan(
			&l.ID, &l.BookTitle, &l.MemberName, &l.MemberCode, &l.LoanDate, &l.ReturnDate, &l.Status,
		); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate loans: %w", rows.Err())
	}
	return loans, nil
}

func (r *LoanRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *LoanRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *LoanRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
