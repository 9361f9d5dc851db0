package book

import (
	"context"
	"strings"
	"time"

	"bookcatalog/internal/store"
	"bookcatalog/internal/validate"
)

// Service orchestrates validation and the multi-step book write. Every
// create/update holds exactly one store transaction for its duration;
// callers go through the service and never reach the repository directly,
// which keeps validation and the transaction boundary in one place.
type Service struct {
	tx   Transactor
	repo Repository
}

func NewService(tx Transactor, repo Repository) *Service {
	return &Service{tx: tx, repo: repo}
}

// validateInput runs the field checks shared by create and update. The
// returned error, when non-nil, is a *validate.Errors carrying the failed
// fields and messages; no I/O has happened.
func validateInput(in Input) error {
	v := validate.New()

	if v.Required(in.Title, "title") {
		v.Length(strings.TrimSpace(in.Title), 1, 255, "title")
	}
	if in.Pages != nil {
		v.Min(*in.Pages, 0, "pages")
	}

	startOK := in.DateStart == "" || v.Date(in.DateStart, "date_start")
	finishOK := in.DateFinish == "" || v.Date(in.DateFinish, "date_finish")
	if startOK && finishOK {
		v.DateRange(in.DateStart, in.DateFinish, "date_range")
	}

	if !v.Valid() {
		return v.Errs()
	}
	return nil
}

// CreateBook validates in, then inserts the book row, associates each
// author id in caller order (duplicates are the caller's responsibility)
// and appends one history row when an initial status is supplied, all in
// one transaction. Returns the new id, or a *validate.Errors without
// touching the store, or the storage failure after rollback.
func (s *Service) CreateBook(ctx context.Context, in Input, authorIDs []int64) (int64, error) {
	if err := validateInput(in); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if id, err = s.repo.Insert(ctx, in); err != nil {
			return err
		}
		for _, authorID := range authorIDs {
			if err := s.repo.AddAuthor(ctx, id, authorID, DefaultTip); err != nil {
				return err
			}
		}
		if in.StatusID != nil {
			return s.repo.AddHistory(ctx, id, *in.StatusID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateBook validates in, then, in one transaction, rewrites the book
// row, replaces the full author-association set (an empty authorIDs
// detaches every author; this is intentional, not a no-op) and appends a
// history row only when the new status is set and differs from the
// previously persisted one.
func (s *Service) UpdateBook(ctx context.Context, id int64, in Input, authorIDs []int64) error {
	if err := validateInput(in); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		prevStatus, err := s.repo.StatusID(ctx, id)
		if err != nil {
			return err
		}

		ok, err := s.repo.Update(ctx, id, in)
		if err != nil {
			return err
		}
		if !ok {
			return store.ErrNotFound
		}

		if err := s.repo.RemoveAllAuthors(ctx, id); err != nil {
			return err
		}
		for _, authorID := range authorIDs {
			if err := s.repo.AddAuthor(ctx, id, authorID, DefaultTip); err != nil {
				return err
			}
		}

		if in.StatusID != nil && (prevStatus == nil || *prevStatus != *in.StatusID) {
			return s.repo.AddHistory(ctx, id, *in.StatusID)
		}
		return nil
	})
}

// DeleteBook hard-deletes the book row. Author associations go with it
// (the schema cascades); history rows are deliberately retained as an
// audit trail.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}

func (s *Service) GetBooks(ctx context.Context, q ListQuery) ([]Book, error) {
	return s.repo.GetBooks(ctx, q)
}

func (s *Service) GetBooksCount(ctx context.Context, q ListQuery) (int, error) {
	return s.repo.GetBooksCount(ctx, q)
}

func (s *Service) GetBook(ctx context.Context, id int64) (*Book, error) {
	return s.repo.FindWithAuthors(ctx, id)
}

func (s *Service) GetBookAuthors(ctx context.Context, id int64) ([]AuthorRef, error) {
	return s.repo.GetBookAuthors(ctx, id)
}

func (s *Service) GetHistory(ctx context.Context, id int64) ([]HistoryEntry, error) {
	return s.repo.GetHistory(ctx, id)
}

func (s *Service) GetBooksByStatus(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error) {
	return s.repo.GetBooksByStatus(ctx, statusID, from)
}

func (s *Service) GetBooksByStatusWithoutInvoice(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error) {
	return s.repo.GetBooksByStatusWithoutInvoice(ctx, statusID, from)
}

func (s *Service) GetTotalPagesByStatus(ctx context.Context, statusID int64, from *time.Time) (int, error) {
	return s.repo.GetTotalPagesByStatus(ctx, statusID, from)
}
