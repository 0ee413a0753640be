package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

// ReportRepository serves the read-only aggregation queries. It never
// writes and takes no row locks; callers pass the overdue cutoff date
// (today minus the configured loan duration) where relevant.
type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

func (r *ReportRepository) KPICounts(ctx context.Context, overdueBefore time.Time) (domain.KPIStats, error) {
	const query = `
SELECT
	COALESCE((SELECT SUM(stock) FROM books), 0),
	(SELECT COUNT(*) FROM loans WHERE status = 'borrowed'),
	(SELECT COUNT(*) FROM members WHERE is_active),
	(SELECT COUNT(*) FROM loans WHERE status = 'borrowed' AND loan_date < $1)`

	var stats domain.KPIStats
	err := r.pool.QueryRow(ctx, query, overdueBefore).Scan(
		&stats.BooksAvailable, &stats.BooksBorrowed, &stats.ActiveMembers, &stats.TotalOverdue,
	)
	if err != nil {
		return domain.KPIStats{}, fmt.Errorf("kpi counts: %w", err)
	}
	return stats, nil
}

// OverdueOpenLoans returns open loans whose loan date falls before the
// cutoff, oldest first. Day counts and fines are derived by the caller.
func (r *ReportRepository) OverdueOpenLoans(ctx context.Context, overdueBefore time.Time, limit int) ([]domain.OverdueLoan, error) {
	ds := loanJoin().
		Select(goqu.I("l.id"), goqu.I("m.name"), goqu.I("b.title"), goqu.I("l.loan_date")).
		Where(
			goqu.I("l.status").Eq(string(domain.LoanStatusBorrowed)),
			goqu.I("l.loan_date").Lt(overdueBefore),
		).
		Order(goqu.I("l.loan_date").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	rows, err := r.queryDataset(ctx, ds, "overdue open loans")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.OverdueLoan
	for rows.Next() {
		var l domain.OverdueLoan
		if err := rows.Scan(&l.LoanID, &l.MemberName, &l.BookTitle, &l.LoanDate); err != nil {
			return nil, fmt.Errorf("scan overdue loan: %w", err)
		}
		loans = append(loans, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate overdue loans: %w", rows.Err())
	}
	return loans, nil
}

func (r *ReportRepository) RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	borrows := loanJoin().
		Select(
			goqu.V(string(domain.ActivityBorrow)).As("type"),
			goqu.I("l.loan_date").As("activity_date"),
			goqu.I("m.name"),
			goqu.I("b.title"),
		)
	returns := loanJoin().
		Select(
			goqu.V(string(domain.ActivityReturn)).As("type"),
			goqu.I("l.return_date").As("activity_date"),
			goqu.I("m.name"),
			goqu.I("b.title"),
		).
		Where(goqu.I("l.return_date").IsNotNull())

	ds := borrows.UnionAll(returns).
		Order(goqu.I("activity_date").Desc()).
		Limit(uint(limit))

	rows, err := r.queryDataset(ctx, ds, "recent activity")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []domain.Activity
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.Type, &a.Date, &a.MemberName, &a.BookTitle); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activity = append(activity, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate activity: %w", rows.Err())
	}
	return activity, nil
}

func (r *ReportRepository) LoansByPeriod(ctx context.Context, start, end time.Time) ([]domain.LoanDetail, error) {
	ds := loanJoin().
		Select(
			goqu.I("l.id"), goqu.I("b.title"), goqu.I("m.name"), goqu.I("m.member_code"),
			goqu.I("l.loan_date"), goqu.I("l.return_date"), goqu.I("l.status"),
		).
		Where(goqu.I("l.loan_date").Between(goqu.Range(start, end))).
		Order(goqu.I("l.loan_date").Desc(), goqu.I("l.id").Desc())

	rows, err := r.queryDataset(ctx, ds, "loans by period")
	if err != nil {
		return nil, err
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

func (r *ReportRepository) PopularBooks(ctx context.Context, limit int) ([]domain.BookCount, error) {
	ds := pgDialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Select(goqu.I("b.title"), goqu.I("b.author"), goqu.COUNT(goqu.I("l.id")).As("borrow_count")).
		GroupBy(goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author")).
		Order(goqu.I("borrow_count").Desc(), goqu.I("b.title").Asc()).
		Limit(uint(limit))

	rows, err := r.queryDataset(ctx, ds, "popular books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.BookCount
	for rows.Next() {
		var b domain.BookCount
		if err := rows.Scan(&b.Title, &b.Author, &b.BorrowCount); err != nil {
			return nil, fmt.Errorf("scan popular book: %w", err)
		}
		books = append(books, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate popular books: %w", rows.Err())
	}
	return books, nil
}

func (r *ReportRepository) NeverBorrowedBooks(ctx context.Context) ([]domain.BookDetail, error) {
	ds := pgDialect.From(goqu.T("books").As("b")).
		LeftJoin(goqu.T("categories").As("c"), goqu.On(goqu.I("b.category_id").Eq(goqu.I("c.id")))).
		LeftJoin(goqu.T("loans").As("l"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Select(
			goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author"), goqu.I("b.publisher"),
			goqu.I("b.year"), goqu.I("b.stock"), goqu.I("b.category_id"), goqu.I("b.created_at"),
			goqu.COALESCE(goqu.I("c.name"), "").As("category"),
		).
		Where(goqu.I("l.id").IsNull()).
		Order(goqu.I("b.title").Asc())

	rows, err := r.queryDataset(ctx, ds, "never borrowed books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookDetails(rows)
}

func (r *ReportRepository) TopBorrowers(ctx context.Context, limit int) ([]domain.BorrowerCount, error) {
	ds := pgDialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("l.member_id").Eq(goqu.I("m.id")))).
		Select(goqu.I("m.name"), goqu.I("m.member_code"), goqu.COUNT(goqu.I("l.id")).As("borrow_count")).
		GroupBy(goqu.I("m.id"), goqu.I("m.name"), goqu.I("m.member_code")).
		Order(goqu.I("borrow_count").Desc(), goqu.I("m.name").Asc()).
		Limit(uint(limit))

	rows, err := r.queryDataset(ctx, ds, "top borrowers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var borrowers []domain.BorrowerCount
	for rows.Next() {
		var b domain.BorrowerCount
		if err := rows.Scan(&b.Name, &b.MemberCode, &b.BorrowCount); err != nil {
			return nil, fmt.Errorf("scan borrower: %w", err)
		}
		borrowers = append(borrowers, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate borrowers: %w", rows.Err())
	}
	return borrowers, nil
}

func (r *ReportRepository) LowStockBooks(ctx context.Context, threshold, limit int) ([]domain.LowStockBook, error) {
	ds := pgDialect.From("books").
		Select(goqu.C("title"), goqu.C("author"), goqu.C("stock")).
		Where(goqu.C("stock").Lt(threshold)).
		Order(goqu.C("stock").Asc(), goqu.C("title").Asc()).
		Limit(uint(limit))

	rows, err := r.queryDataset(ctx, ds, "low stock books")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.LowStockBook
	for rows.Next() {
		var b domain.LowStockBook
		if err := rows.Scan(&b.Title, &b.Author, &b.Stock); err != nil {
			return nil, fmt.Errorf("scan low stock book: %w", err)
		}
		books = append(books, b)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate low stock books: %w", rows.Err())
	}
	return books, nil
}

func (r *ReportRepository) CountBooks(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return count, nil
}

func loanJoin() *goqu.SelectDataset {
	return pgDialect.From(goqu.T("loans").As("l")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("l.book_id").Eq(goqu.I("b.id")))).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("l.member_id").Eq(goqu.I("m.id"))))
}

func (r *ReportRepository) queryDataset(ctx context.Context, ds *goqu.SelectDataset, op string) (pgx.Rows, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("%s: build query: %w", op, err)
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
