package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"bookcatalog/internal/store"
)

// PostgresRepo implements Repository on top of the catalog store.
type PostgresRepo struct {
	st *store.Store
}

func NewPostgresRepo(st *store.Store) *PostgresRepo {
	return &PostgresRepo{st: st}
}

// sortColumn maps the caller-supplied sort key onto the fixed set of
// sortable book columns, silently falling back to id. Caller input never
// reaches the SQL text any other way.
func sortColumn(s string) string {
	switch s {
	case "id", "title", "date_start", "date_finish":
		return s
	}
	return "id"
}

func sortOrder(s string) string {
	if strings.EqualFold(s, "ASC") {
		return "ASC"
	}
	return "DESC"
}

// buildFilter renders the shared WHERE predicate of GetBooks and
// GetBooksCount. Both queries run off this one builder so the list and its
// count can never disagree about which rows match.
func buildFilter(q ListQuery) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	if q.Title != "" {
		clauses = append(clauses, fmt.Sprintf("b.title ILIKE $%d", argn))
		args = append(args, "%"+q.Title+"%")
		argn++
	}

	if q.Author != "" {
		clauses = append(clauses, fmt.Sprintf("(a.fname ILIKE $%d OR a.name ILIKE $%d)", argn, argn+1))
		pattern := "%" + q.Author + "%"
		args = append(args, pattern, pattern)
		argn += 2
	}

	if q.StatusID != nil {
		clauses = append(clauses, fmt.Sprintf("b.id_status = $%d", argn))
		args = append(args, *q.StatusID)
		argn++
	}

	if q.Invoice != nil {
		clauses = append(clauses, fmt.Sprintf("b.invoice = $%d", argn))
		args = append(args, *q.Invoice)
		argn++
	}

	return strings.Join(clauses, " AND "), args
}

const bookJoins = `
		FROM book b
		LEFT JOIN status s ON b.id_status = s.id
		LEFT JOIN formating f ON b.id_formating = f.id
		LEFT JOIN book_author ba ON b.id = ba.id_book
		LEFT JOIN author a ON ba.id_author = a.id`

func scanBook(rows pgx.Rows, b *Book) error {
	return rows.Scan(
		&b.ID, &b.Title, &b.Pages, &b.DateStart, &b.DateFinish,
		&b.StatusID, &b.FormatID, &b.Invoice, &b.Note, &b.Changed,
		&b.StatusName, &b.FormatName, &b.FormatShortname, &b.Authors,
	)
}

func (r *PostgresRepo) GetBooks(ctx context.Context, q ListQuery) ([]Book, error) {
	where, args := buildFilter(q)
	argn := len(args) + 1

	sql := fmt.Sprintf(`
		SELECT b.id, b.title, b.pages, b.date_start, b.date_finish,
		       b.id_status, b.id_formating, b.invoice, b.note, b.changed,
		       s.name, f.name, f.shortname,
		       string_agg(a.fname || ' ' || a.name, ', ')
		%s
		WHERE %s
		GROUP BY b.id, s.name, f.name, f.shortname
		ORDER BY b.%s %s
		LIMIT $%d OFFSET $%d`,
		bookJoins, where, sortColumn(q.SortBy), sortOrder(q.SortOrder), argn, argn+1)

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.st.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		var b Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetBooksCount(ctx context.Context, q ListQuery) (int, error) {
	where, args := buildFilter(q)
	sql := fmt.Sprintf("SELECT COUNT(DISTINCT b.id) %s WHERE %s", bookJoins, where)

	var total int
	if err := r.st.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PostgresRepo) FindWithAuthors(ctx context.Context, id int64) (*Book, error) {
	sql := fmt.Sprintf(`
		SELECT b.id, b.title, b.pages, b.date_start, b.date_finish,
		       b.id_status, b.id_formating, b.invoice, b.note, b.changed,
		       s.name, f.name, f.shortname,
		       string_agg(a.fname || ' ' || a.name, ', ')
		%s
		WHERE b.id = $1
		GROUP BY b.id, s.name, f.name, f.shortname`, bookJoins)

	rows, err := r.st.Query(ctx, sql, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, store.ErrNotFound
	}
	var b Book
	if err := scanBook(rows, &b); err != nil {
		return nil, err
	}
	return &b, rows.Err()
}

func (r *PostgresRepo) GetBookAuthors(ctx context.Context, id int64) ([]AuthorRef, error) {
	const sql = `
		SELECT a.id, a.fname || ' ' || a.name, a.email
		FROM author a
		JOIN book_author ba ON a.id = ba.id_author
		WHERE ba.id_book = $1`

	rows, err := r.st.Query(ctx, sql, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuthorRef
	for rows.Next() {
		var a AuthorRef
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// fields normalizes the input for the store: blank strings become NULL for
// dates and the note, never empty strings.
func fields(in Input) map[string]any {
	return map[string]any{
		"title":        strings.TrimSpace(in.Title),
		"pages":        in.Pages,
		"date_start":   nullString(in.DateStart),
		"date_finish":  nullString(in.DateFinish),
		"id_status":    in.StatusID,
		"id_formating": in.FormatID,
		"invoice":      in.Invoice,
		"note":         nullString(in.Note),
	}
}

func nullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (r *PostgresRepo) Insert(ctx context.Context, in Input) (int64, error) {
	return r.st.Insert(ctx, "book", fields(in))
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in Input) (bool, error) {
	f := fields(in)
	f["changed"] = time.Now()
	return r.st.Update(ctx, "book", id, f)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.st.Delete(ctx, "book", id)
}

// StatusID reads the currently persisted status of a book, for the
// service's change-detection before an update.
func (r *PostgresRepo) StatusID(ctx context.Context, id int64) (*int64, error) {
	var statusID *int64
	err := r.st.QueryRow(ctx, "SELECT id_status FROM book WHERE id = $1", id).Scan(&statusID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return statusID, nil
}

func (r *PostgresRepo) AddAuthor(ctx context.Context, bookID, authorID, tipID int64) error {
	_, err := r.st.Exec(ctx,
		"INSERT INTO book_author (id_book, id_author, id_tip) VALUES ($1, $2, $3)",
		bookID, authorID, tipID)
	return err
}

func (r *PostgresRepo) RemoveAllAuthors(ctx context.Context, bookID int64) error {
	_, err := r.st.Exec(ctx, "DELETE FROM book_author WHERE id_book = $1", bookID)
	return err
}

func (r *PostgresRepo) AddHistory(ctx context.Context, bookID, statusID int64) error {
	_, err := r.st.Insert(ctx, "history", map[string]any{
		"id_book":   bookID,
		"id_status": statusID,
	})
	return err
}

func (r *PostgresRepo) GetHistory(ctx context.Context, bookID int64) ([]HistoryEntry, error) {
	const sql = `
		SELECT h.id, h.id_status, s.name, h.inserted, h.note
		FROM history h
		LEFT JOIN status s ON h.id_status = s.id
		WHERE h.id_book = $1
		ORDER BY h.inserted DESC, h.id DESC`

	rows, err := r.st.Query(ctx, sql, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.StatusID, &h.StatusName, &h.Inserted, &h.Note); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// statusReport renders the by-status report query. last_status_change comes
// from a per-row subquery over history; a join would duplicate rows.
func statusReport(withoutInvoice bool, from *time.Time) (string, []any) {
	where := "b.id_status = $1"
	argn := 2
	if withoutInvoice {
		where += " AND b.invoice = false"
	}
	var extra []any
	if from != nil {
		where += fmt.Sprintf(" AND b.changed >= $%d", argn)
		extra = append(extra, *from)
	}

	sql := fmt.Sprintf(`
		SELECT b.id, b.title, b.pages,
		       string_agg(a.fname || ' ' || a.name, ', '),
		       (SELECT h.inserted
		        FROM history h
		        WHERE h.id_book = b.id
		        ORDER BY h.inserted DESC
		        LIMIT 1)
		FROM book b
		LEFT JOIN book_author ba ON b.id = ba.id_book
		LEFT JOIN author a ON ba.id_author = a.id
		WHERE %s
		GROUP BY b.id
		ORDER BY b.title`, where)
	return sql, extra
}

func (r *PostgresRepo) booksByStatus(ctx context.Context, statusID int64, from *time.Time, withoutInvoice bool) ([]StatusBook, error) {
	sql, extra := statusReport(withoutInvoice, from)
	args := append([]any{statusID}, extra...)

	rows, err := r.st.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusBook
	for rows.Next() {
		var b StatusBook
		if err := rows.Scan(&b.ID, &b.Title, &b.Pages, &b.Authors, &b.LastStatusChange); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetBooksByStatus(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error) {
	return r.booksByStatus(ctx, statusID, from, false)
}

func (r *PostgresRepo) GetBooksByStatusWithoutInvoice(ctx context.Context, statusID int64, from *time.Time) ([]StatusBook, error) {
	return r.booksByStatus(ctx, statusID, from, true)
}

func (r *PostgresRepo) GetTotalPagesByStatus(ctx context.Context, statusID int64, from *time.Time) (int, error) {
	sql := "SELECT COALESCE(SUM(pages), 0) FROM book WHERE id_status = $1"
	args := []any{statusID}
	if from != nil {
		sql += " AND changed >= $2"
		args = append(args, *from)
	}

	var total int
	if err := r.st.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
