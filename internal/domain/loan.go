package domain

import "time"

type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

// Loan records one act of borrowing. It is created as borrowed and
// transitions exactly once, on return, to returned or overdue. The
// classification at return time is permanent.
type Loan struct {
	ID         int64
	BookID     int64
	MemberID   int64
	LoanDate   time.Time
	ReturnDate *time.Time
	Status     LoanStatus
}

// LoanDetail is a Loan joined with book and member identity for listings.
type LoanDetail struct {
	ID         int64
	BookTitle  string
	MemberName string
	MemberCode string
	LoanDate   time.Time
	ReturnDate *time.Time
	Status     LoanStatus
}
