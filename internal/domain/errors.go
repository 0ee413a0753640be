package domain

import "errors"

var (
	// Business-rule violations. Callers present these to the end user verbatim.
	ErrInactiveMember      = errors.New("member is not active")
	ErrOutOfStock          = errors.New("book is out of stock")
	ErrDuplicateActiveLoan = errors.New("member is already borrowing this book")
	ErrLoanLimitExceeded   = errors.New("member has reached the active loan limit")
	ErrAlreadyReturned     = errors.New("loan is not currently borrowed")

	ErrTitleRequired        = errors.New("title is required")
	ErrAuthorRequired       = errors.New("author is required")
	ErrMemberCodeRequired   = errors.New("member code is required")
	ErrMemberNameRequired   = errors.New("member name is required")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidStock         = errors.New("stock must not be negative")
	ErrInvalidPeriod        = errors.New("period start must not be after end")

	ErrBookNotFound     = errors.New("book not found")
	ErrMemberNotFound   = errors.New("member not found")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrCategoryNotFound = errors.New("category not found")

	ErrNegativeStock       = errors.New("stock adjustment would go negative")
	ErrDuplicateMemberCode = errors.New("member code already exists")
	ErrBookHasLoans        = errors.New("book has loan history and cannot be deleted")
)
