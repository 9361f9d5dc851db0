// Package author manages the author registry and its link to the catalog:
// listing with the joined book titles, typeahead search, and a delete that
// refuses to orphan book associations.
package author

import "errors"

// ErrHasBooks is returned by DeleteAuthor when the author still has book
// associations. The caller must detach the books first.
var ErrHasBooks = errors.New("author: has book associations")

// Author is one registry row. Email is optional and stored NULL when blank.
type Author struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	FName string  `json:"fname"`
	Email *string `json:"email,omitempty"`
}

// ListItem is an author with the comma-separated titles of their books,
// nil when they have none.
type ListItem struct {
	Author
	Books *string `json:"books,omitempty"`
}

// Suggestion is a typeahead hit: the id plus a display label of the form
// "Fname Name".
type Suggestion struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// BookRef is one book currently attributed to an author.
type BookRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Input is the write DTO for creating or updating an author.
type Input struct {
	Name  string
	FName string
	Email string
}

// ListQuery carries the list filters, sort and pagination. Name matches
// against both name columns.
type ListQuery struct {
	Name      string
	Page      int
	SortBy    string
	SortOrder string
	PageSize  int
}
