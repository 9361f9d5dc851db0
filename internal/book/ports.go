package book

import (
	"context"
	"time"
)

// Repository is the contract for book aggregate storage. Write methods
// participate in whatever transaction the context carries.
type Repository interface {
	GetBooks(ctx context.Context, q ListQuery) ([]Book, error)
	GetBooksCount(ctx context.Context, q ListQuery) (int, error)
	FindWithAuthors(ctx context.Context, id int64) (*Book, error)
	GetBookAuthors(ctx context.Context, id int64) ([]AuthorRef, error)

	Insert(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	StatusID(ctx context.Context, id int64) (*int64, error)

	// AddAuthor and RemoveAllAuthors are a replace pair: the service always
	// clears the full association set and re-adds, never diffs.
	AddAuthor(ctx context.Context, bookID, authorID, tipID int64) error
	RemoveAllAuthors(ctx context.Context, bookID int64) error

	AddHistory(ctx context.Context, bookID, statusID int64) error
	GetHistory(ctx context.Context, bookID int64) ([]HistoryEntry, error)

	GetBooksByStatus(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error)
	GetBooksByStatusWithoutInvoice(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error)
	GetTotalPagesByStatus(ctx context.Context, statusID int64, from *time.Time) (int, error)
}

// Transactor runs fn inside one storage transaction: commit on nil,
// rollback on error.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
