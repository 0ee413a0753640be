package domain

import "time"

// Member represents a registered borrower. MemberCode is unique and
// immutable after creation. Members are never physically deleted;
// deactivation flips IsActive and is reversible.
type Member struct {
	ID         int64
	MemberCode string
	Name       string
	Email      string
	Phone      string
	Address    string
	IsActive   bool
	CreatedAt  time.Time
}
