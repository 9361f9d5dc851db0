// Package book implements the cataloging core: the book aggregate
// (book row + author associations + status history) and the service that
// mutates it as a single transactional unit.
package book

import (
	"time"
)

// DefaultTip is the association-type tag written for every book/author
// link. The full set for a book is always replaced, never diffed, so the
// tag resets to this value on every update.
const DefaultTip int64 = 1

// Book is the denormalized catalog view: one row per book with the joined
// status name, format shortname and the comma-separated author list.
type Book struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Pages           *int       `json:"pages,omitempty"`
	DateStart       *time.Time `json:"date_start,omitempty"`
	DateFinish      *time.Time `json:"date_finish,omitempty"`
	StatusID        *int64     `json:"status_id,omitempty"`
	StatusName      *string    `json:"status_name,omitempty"`
	FormatID        *int64     `json:"format_id,omitempty"`
	FormatName      *string    `json:"format_name,omitempty"`
	FormatShortname *string    `json:"format_shortname,omitempty"`
	Invoice         bool       `json:"invoice"`
	Note            *string    `json:"note,omitempty"`
	Changed         time.Time  `json:"changed"`
	Authors         *string    `json:"authors,omitempty"`
}

// AuthorRef is one author currently associated with a book, in join order.
type AuthorRef struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// StatusBook is a row of the by-status reports. LastStatusChange is the
// timestamp of the book's most recent history row, nil when the book has
// no history yet.
type StatusBook struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Pages            *int       `json:"pages,omitempty"`
	Authors          *string    `json:"authors,omitempty"`
	LastStatusChange *time.Time `json:"last_status_change,omitempty"`
}

// HistoryEntry is one row of a book's append-only status audit trail.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	StatusID   int64     `json:"status_id"`
	StatusName *string   `json:"status_name,omitempty"`
	Inserted   time.Time `json:"inserted"`
	Note       *string   `json:"note,omitempty"`
}

// Input is the write DTO for creating or updating a book. Dates travel as
// "YYYY-MM-DD" strings so the service can validate format and range before
// any I/O; blank optional fields are normalized to NULL at the repository.
type Input struct {
	Title      string
	Pages      *int
	DateStart  string
	DateFinish string
	StatusID   *int64
	FormatID   *int64
	Invoice    bool
	Note       string
}

// ListQuery carries the filters, sort and pagination of the denormalized
// list. Empty search strings mean "no filter". A nil StatusID or Invoice
// means unfiltered; zero and false are legitimate filter values and stay
// distinguishable from "unset".
type ListQuery struct {
	Title     string
	Author    string
	StatusID  *int64
	Invoice   *bool
	Page      int
	SortBy    string
	SortOrder string
	PageSize  int
}
