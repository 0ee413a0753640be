package domain

import "time"

// Category groups books; immutable once referenced by a book.
type Category struct {
	ID   int64
	Name string
}

// Book represents a catalogued title. Stock counts physically available
// copies and is only ever changed through the circulation ledger.
type Book struct {
	ID         int64
	Title      string
	Author     string
	Publisher  string
	Year       int
	Stock      int
	CategoryID *int64
	CreatedAt  time.Time
}

// BookDetail is a Book joined with its category name for listings.
// Category is empty when the book is uncategorized.
type BookDetail struct {
	Book
	Category string
}
