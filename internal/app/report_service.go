package app

import (
	"context"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/clock"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type ReportRepository interface {
	KPICounts(ctx context.Context, overdueBefore time.Time) (domain.KPIStats, error)
	OverdueOpenLoans(ctx context.Context, overdueBefore time.Time, limit int) ([]domain.OverdueLoan, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error)
	LoansByPeriod(ctx context.Context, start, end time.Time) ([]domain.LoanDetail, error)
	PopularBooks(ctx context.Context, limit int) ([]domain.BookCount, error)
	NeverBorrowedBooks(ctx context.Context) ([]domain.BookDetail, error)
	TopBorrowers(ctx context.Context, limit int) ([]domain.BorrowerCount, error)
	LowStockBooks(ctx context.Context, threshold, limit int) ([]domain.LowStockBook, error)
	CountBooks(ctx context.Context) (int, error)
}

const lowStockThreshold = 3

// ReportService derives read-only views over catalog, membership, and
// ledger state. Overdue detection uses the configured loan duration, the
// same rule the ledger applies when classifying a return.
type ReportService struct {
	repo   ReportRepository
	clock  clock.Clock
	policy domain.Policy
}

func NewReportService(repo ReportRepository, clk clock.Clock, opts ...ReportOption) *ReportService {
	svc := &ReportService{
		repo:   repo,
		clock:  clk,
		policy: domain.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReportOption func(*ReportService)

// WithReportPolicy overrides the default circulation rules.
func WithReportPolicy(p domain.Policy) ReportOption {
	return func(s *ReportService) {
		s.policy = p
	}
}

// overdueCutoff is the newest loan date an open loan can carry and still
// be overdue today: anything borrowed strictly before today minus the
// loan duration has at least one full day of lateness.
func (s *ReportService) overdueCutoff(today time.Time) time.Time {
	return today.AddDate(0, 0, -s.policy.LoanDurationDays)
}

func (s *ReportService) KPIs(ctx context.Context) (domain.KPIStats, error) {
	today := domain.CivilDate(s.clock.Now())
	return s.repo.KPICounts(ctx, s.overdueCutoff(today))
}

func (s *ReportService) UrgentTasks(ctx context.Context, limit int) ([]domain.UrgentTask, error) {
	today := domain.CivilDate(s.clock.Now())
	loans, err := s.repo.OverdueOpenLoans(ctx, s.overdueCutoff(today), limit)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.UrgentTask, 0, len(loans))
	for _, l := range loans {
		tasks = append(tasks, domain.UrgentTask{
			LoanID:     l.LoanID,
			MemberName: l.MemberName,
			BookTitle:  l.BookTitle,
			DueDate:    s.policy.DueDate(l.LoanDate),
		})
	}
	return tasks, nil
}

func (s *ReportService) RecentActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.repo.RecentActivity(ctx, limit)
}

func (s *ReportService) LoansByPeriod(ctx context.Context, start, end time.Time) ([]domain.LoanDetail, error) {
	start, end = domain.CivilDate(start), domain.CivilDate(end)
	if start.After(end) {
		return nil, domain.ErrInvalidPeriod
	}
	return s.repo.LoansByPeriod(ctx, start, end)
}

// OverdueLoans lists currently-overdue open loans, most delinquent
// first, with the fine estimate derived from the policy.
func (s *ReportService) OverdueLoans(ctx context.Context) ([]domain.OverdueLoan, error) {
	today := domain.CivilDate(s.clock.Now())
	loans, err := s.repo.OverdueOpenLoans(ctx, s.overdueCutoff(today), 0)
	if err != nil {
		return nil, err
	}

	// The repository orders by loan date ascending, which is days
	// overdue descending; only the derived fields need filling in.
	for i := range loans {
		loans[i].DaysOverdue = s.policy.DaysOverdue(loans[i].LoanDate, today)
		loans[i].EstimatedFine = s.policy.Fine(loans[i].DaysOverdue)
	}
	return loans, nil
}

func (s *ReportService) PopularBooks(ctx context.Context, limit int) ([]domain.BookCount, error) {
	return s.repo.PopularBooks(ctx, limit)
}

func (s *ReportService) NeverBorrowedBooks(ctx context.Context) ([]domain.BookDetail, error) {
	return s.repo.NeverBorrowedBooks(ctx)
}

func (s *ReportService) TopBorrowers(ctx context.Context, limit int) ([]domain.BorrowerCount, error) {
	return s.repo.TopBorrowers(ctx, limit)
}

func (s *ReportService) LowStockBooks(ctx context.Context, limit int) ([]domain.LowStockBook, error) {
	return s.repo.LowStockBooks(ctx, lowStockThreshold, limit)
}

func (s *ReportService) SummaryStats(ctx context.Context) (domain.SummaryStats, error) {
	today := domain.CivilDate(s.clock.Now())

	totalBooks, err := s.repo.CountBooks(ctx)
	if err != nil {
		return domain.SummaryStats{}, err
	}
	kpis, err := s.repo.KPICounts(ctx, s.overdueCutoff(today))
	if err != nil {
		return domain.SummaryStats{}, err
	}
	overdue, err := s.repo.OverdueOpenLoans(ctx, s.overdueCutoff(today), 0)
	if err != nil {
		return domain.SummaryStats{}, err
	}

	var totalFines int64
	for _, l := range overdue {
		totalFines += s.policy.Fine(s.policy.DaysOverdue(l.LoanDate, today))
	}

	return domain.SummaryStats{
		TotalBooks:    totalBooks,
		ActiveMembers: kpis.ActiveMembers,
		ActiveLoans:   kpis.BooksBorrowed,
		OverdueCount:  kpis.TotalOverdue,
		TotalFines:    totalFines,
	}, nil
}
