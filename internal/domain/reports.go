package domain

import "time"

// Read-side projections materialized by the reporting queries. These are
// derived views; none of them is ever written back.

type KPIStats struct {
	BooksAvailable int
	BooksBorrowed  int
	ActiveMembers  int
	TotalOverdue   int
}

// UrgentTask is a currently-overdue open loan surfaced on the dashboard.
type UrgentTask struct {
	LoanID     int64
	MemberName string
	BookTitle  string
	DueDate    time.Time
}

type ActivityType string

const (
	ActivityBorrow ActivityType = "borrow"
	ActivityReturn ActivityType = "return"
)

// Activity is one borrow or return event in the recent-activity feed.
type Activity struct {
	Type       ActivityType
	Date       time.Time
	MemberName string
	BookTitle  string
}

// OverdueLoan is an open loan past its due date, with the fine estimate
// derived from the circulation policy at read time.
type OverdueLoan struct {
	LoanID        int64
	MemberName    string
	BookTitle     string
	LoanDate      time.Time
	DaysOverdue   int
	EstimatedFine int64
}

type BookCount struct {
	Title       string
	Author      string
	BorrowCount int
}

type BorrowerCount struct {
	Name        string
	MemberCode  string
	BorrowCount int
}

type LowStockBook struct {
	Title  string
	Author string
	Stock  int
}

type SummaryStats struct {
	TotalBooks    int
	ActiveMembers int
	ActiveLoans   int
	OverdueCount  int
	TotalFines    int64
}
