package author

import "context"

// Repository is the contract for author storage.
type Repository interface {
	GetAuthors(ctx context.Context, q ListQuery) ([]ListItem, error)
	GetAuthorsCount(ctx context.Context, q ListQuery) (int, error)
	Find(ctx context.Context, id int64) (*Author, error)

	Insert(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)

	SearchByName(ctx context.Context, term string, limit int) ([]Suggestion, error)
	GetRecent(ctx context.Context, limit int) ([]Author, error)

	HasBooks(ctx context.Context, id int64) (bool, error)
	BookCount(ctx context.Context, id int64) (int, error)
	BooksOf(ctx context.Context, id int64) ([]BookRef, error)
}
