package domain

import "time"

// Policy carries the circulation rules. It is supplied explicitly to the
// services that need it; nothing reads configuration from global state.
type Policy struct {
	LoanDurationDays int
	MaxActiveLoans   int
	FineEnabled      bool
	FinePerDay       int64
}

// DefaultPolicy returns the stock circulation rules: a week per loan,
// three concurrent loans per member, fines at 2000 per day.
func DefaultPolicy() Policy {
	return Policy{
		LoanDurationDays: 7,
		MaxActiveLoans:   3,
		FineEnabled:      true,
		FinePerDay:       2000,
	}
}

// DueDate is the last day a loan started on loanDate can be returned
// without being overdue.
func (p Policy) DueDate(loanDate time.Time) time.Time {
	return CivilDate(loanDate).AddDate(0, 0, p.LoanDurationDays)
}

// ReturnStatus classifies a return happening on returnedOn. Returning on
// the due date itself is still on time.
func (p Policy) ReturnStatus(loanDate, returnedOn time.Time) LoanStatus {
	if DaysBetween(loanDate, returnedOn) > p.LoanDurationDays {
		return LoanStatusOverdue
	}
	return LoanStatusReturned
}

// DaysOverdue reports how many days past its duration an open loan is on
// the given day. Zero or negative means the loan is not overdue.
func (p Policy) DaysOverdue(loanDate, today time.Time) int {
	return DaysBetween(loanDate, today) - p.LoanDurationDays
}

// Fine returns the estimated fine for a loan that is daysOverdue days
// late. Zero when fines are disabled or the loan is not overdue.
func (p Policy) Fine(daysOverdue int) int64 {
	if !p.FineEnabled || daysOverdue <= 0 {
		return 0
	}
	return int64(daysOverdue) * p.FinePerDay
}
