package app

import (
	"context"
	"time"

	"github.com/rhnbztnl/perpustakaan-api/internal/clock"
	"github.com/rhnbztnl/perpustakaan-api/internal/domain"
)

type LedgerRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetMemberForUpdate(ctx context.Context, memberID int64) (domain.Member, error)
	GetBookForUpdate(ctx context.Context, bookID int64) (domain.Book, error)
	HasActiveLoan(ctx context.Context, bookID, memberID int64) (bool, error)
	CountActiveLoans(ctx context.Context, memberID int64) (int, error)
	CreateLoan(ctx context.Context, loan domain.Loan) (domain.Loan, error)
	GetLoanForUpdate(ctx context.Context, loanID int64) (domain.Loan, error)
	CloseLoan(ctx context.Context, loanID int64, returnDate time.Time, status domain.LoanStatus) error
	AdjustStock(ctx context.Context, bookID int64, delta int) (int, error)
	ListLoans(ctx context.Context) ([]domain.LoanDetail, error)
}

// CirculationService is the sole writer of loan rows and the sole
// authority over book stock. Borrow and Return each run as one
// transaction: the validation reads and the writes commit together or
// not at all.
type CirculationService struct {
	repo   LedgerRepository
	clock  clock.Clock
	policy domain.Policy
}

func NewCirculationService(repo LedgerRepository, clk clock.Clock, opts ...CirculationOption) *CirculationService {
	svc := &CirculationService{
		repo:   repo,
		clock:  clk,
		policy: domain.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type CirculationOption func(*CirculationService)

// WithPolicy overrides the default circulation rules.
func WithPolicy(p domain.Policy) CirculationOption {
	return func(s *CirculationService) {
		s.policy = p
	}
}

// Borrow validates member eligibility and book availability, then
// creates the loan and decrements stock atomically. The member row is
// locked before the book row, in that order everywhere, so concurrent
// borrows serialize per member and per book without deadlocking.
func (s *CirculationService) Borrow(ctx context.Context, memberID, bookID int64) (domain.Loan, error) {
	today := domain.CivilDate(s.clock.Now())
	var result domain.Loan

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		member, err := s.repo.GetMemberForUpdate(txCtx, memberID)
		if err != nil {
			return err
		}
		if !member.IsActive {
			return domain.ErrInactiveMember
		}

		book, err := s.repo.GetBookForUpdate(txCtx, bookID)
		if err != nil {
			return err
		}
		if book.Stock <= 0 {
			return domain.ErrOutOfStock
		}

		active, err := s.repo.HasActiveLoan(txCtx, bookID, memberID)
		if err != nil {
			return err
		}
		if active {
			return domain.ErrDuplicateActiveLoan
		}

		count, err := s.repo.CountActiveLoans(txCtx, memberID)
		if err != nil {
			return err
		}
		if count >= s.policy.MaxActiveLoans {
			return domain.ErrLoanLimitExceeded
		}

		loan, err := s.repo.CreateLoan(txCtx, domain.Loan{
			BookID:   bookID,
			MemberID: memberID,
			LoanDate: today,
			Status:   domain.LoanStatusBorrowed,
		})
		if err != nil {
			return err
		}

		if _, err := s.repo.AdjustStock(txCtx, bookID, -1); err != nil {
			return err
		}

		result = loan
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return result, nil
}

// Return closes a borrowed loan exactly once. The classification as
// returned or overdue is fixed at return time and never revisited.
func (s *CirculationService) Return(ctx context.Context, loanID int64) (domain.Loan, error) {
	today := domain.CivilDate(s.clock.Now())
	var result domain.Loan

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		loan, err := s.repo.GetLoanForUpdate(txCtx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusBorrowed {
			return domain.ErrAlreadyReturned
		}

		status := s.policy.ReturnStatus(loan.LoanDate, today)
		if err := s.repo.CloseLoan(txCtx, loanID, today, status); err != nil {
			return err
		}
		if _, err := s.repo.AdjustStock(txCtx, loan.BookID, +1); err != nil {
			return err
		}

		loan.ReturnDate = &today
		loan.Status = status
		result = loan
		return nil
	})
	if err != nil {
		return domain.Loan{}, err
	}
	return result, nil
}

func (s *CirculationService) ListLoans(ctx context.Context) ([]domain.LoanDetail, error) {
	return s.repo.ListLoans(ctx)
}
