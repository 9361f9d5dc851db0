package author

import (
	"context"

	"bookcatalog/internal/store"
	"bookcatalog/internal/validate"
)

// MinSearchLen is the shortest typeahead term the service will run a
// query for; anything shorter returns no suggestions without touching
// the store.
const MinSearchLen = 3

// Service wraps the repository with field validation and the delete guard.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateInput(in Input) error {
	v := validate.New()

	if v.Required(in.FName, "fname") {
		v.Length(in.FName, 1, 100, "fname")
	}
	if v.Required(in.Name, "name") {
		v.Length(in.Name, 1, 100, "name")
	}
	v.Email(in.Email, "email")

	if !v.Valid() {
		return v.Errs()
	}
	return nil
}

func (s *Service) CreateAuthor(ctx context.Context, in Input) (int64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}
	return s.repo.Insert(ctx, in)
}

func (s *Service) UpdateAuthor(ctx context.Context, id int64, in Input) error {
	if err := validateInput(in); err != nil {
		return err
	}

	ok, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

// DeleteAuthor removes the author only when no book still references them;
// otherwise it returns ErrHasBooks and changes nothing.
func (s *Service) DeleteAuthor(ctx context.Context, id int64) error {
	hasBooks, err := s.repo.HasBooks(ctx, id)
	if err != nil {
		return err
	}
	if hasBooks {
		return ErrHasBooks
	}

	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *Service) GetAuthors(ctx context.Context, q ListQuery) ([]ListItem, error) {
	return s.repo.GetAuthors(ctx, q)
}

func (s *Service) GetAuthorsCount(ctx context.Context, q ListQuery) (int, error) {
	return s.repo.GetAuthorsCount(ctx, q)
}

func (s *Service) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	return s.repo.Find(ctx, id)
}

// SearchByName returns typeahead suggestions. Terms shorter than
// MinSearchLen match too much to be useful and yield an empty result
// without a query.
func (s *Service) SearchByName(ctx context.Context, term string, limit int) ([]Suggestion, error) {
	if len(term) < MinSearchLen {
		return []Suggestion{}, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.repo.SearchByName(ctx, term, limit)
}

func (s *Service) GetRecent(ctx context.Context, limit int) ([]Author, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.repo.GetRecent(ctx, limit)
}

func (s *Service) GetBooks(ctx context.Context, id int64) ([]BookRef, error) {
	return s.repo.BooksOf(ctx, id)
}

func (s *Service) GetBookCount(ctx context.Context, id int64) (int, error) {
	return s.repo.BookCount(ctx, id)
}
