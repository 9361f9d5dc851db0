package author

import (
	"context"
	"fmt"
	"strings"

	"bookcatalog/internal/store"
)

// PostgresRepo implements Repository on top of the catalog store.
type PostgresRepo struct {
	st *store.Store
}

func NewPostgresRepo(st *store.Store) *PostgresRepo {
	return &PostgresRepo{st: st}
}

func sortColumn(s string) string {
	switch s {
	case "id", "name", "fname", "email":
		return s
	}
	return "id"
}

// Authors sort ascending unless the caller says otherwise; the newest-first
// view has its own endpoint.
func sortOrder(s string) string {
	if strings.EqualFold(s, "DESC") {
		return "DESC"
	}
	return "ASC"
}

func buildFilter(q ListQuery) (string, []any) {
	if q.Name == "" {
		return "1=1", nil
	}
	pattern := "%" + q.Name + "%"
	return "(a.fname ILIKE $1 OR a.name ILIKE $2 OR a.email ILIKE $3)",
		[]any{pattern, pattern, pattern}
}

func (r *PostgresRepo) GetAuthors(ctx context.Context, q ListQuery) ([]ListItem, error) {
	where, args := buildFilter(q)
	argn := len(args) + 1

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	sql := fmt.Sprintf(`
		SELECT a.id, a.name, a.fname, a.email,
		       string_agg(b.title, ', ' ORDER BY b.title)
		FROM author a
		LEFT JOIN book_author ba ON a.id = ba.id_author
		LEFT JOIN book b ON ba.id_book = b.id
		WHERE %s
		GROUP BY a.id
		ORDER BY a.%s %s
		LIMIT $%d OFFSET $%d`,
		where, sortColumn(q.SortBy), sortOrder(q.SortOrder), argn, argn+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.st.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ListItem
	for rows.Next() {
		var item ListItem
		if err := rows.Scan(&item.ID, &item.Name, &item.FName, &item.Email, &item.Books); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetAuthorsCount(ctx context.Context, q ListQuery) (int, error) {
	where, args := buildFilter(q)

	var count int
	sql := fmt.Sprintf("SELECT COUNT(*) FROM author a WHERE %s", where)
	if err := r.st.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepo) Find(ctx context.Context, id int64) (*Author, error) {
	row, err := r.st.Find(ctx, "author", id)
	if err != nil {
		return nil, err
	}

	a := &Author{ID: id}
	if v, ok := row["name"].(string); ok {
		a.Name = v
	}
	if v, ok := row["fname"].(string); ok {
		a.FName = v
	}
	if v, ok := row["email"].(string); ok {
		a.Email = &v
	}
	return a, nil
}

func fields(in Input) map[string]any {
	return map[string]any{
		"name":  strings.TrimSpace(in.Name),
		"fname": strings.TrimSpace(in.FName),
		"email": nullString(in.Email),
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
	return r.st.Insert(ctx, "author", fields(in))
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, in Input) (bool, error) {
	return r.st.Update(ctx, "author", id, fields(in))
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	return r.st.Delete(ctx, "author", id)
}

func (r *PostgresRepo) SearchByName(ctx context.Context, term string, limit int) ([]Suggestion, error) {
	pattern := "%" + term + "%"
	rows, err := r.st.Query(ctx, `
		SELECT id, fname, name
		FROM author
		WHERE fname ILIKE $1 OR name ILIKE $2
		ORDER BY fname ASC
		LIMIT $3`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var (
			s     Suggestion
			fname string
			name  string
		)
		if err := rows.Scan(&s.ID, &fname, &name); err != nil {
			return nil, err
		}
		s.Label = strings.TrimSpace(fname + " " + name)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetRecent(ctx context.Context, limit int) ([]Author, error) {
	rows, err := r.st.Query(ctx, `
		SELECT id, name, fname, email
		FROM author
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.FName, &a.Email); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) HasBooks(ctx context.Context, id int64) (bool, error) {
	count, err := r.BookCount(ctx, id)
	return count > 0, err
}

func (r *PostgresRepo) BookCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.st.QueryRow(ctx,
		"SELECT COUNT(*) FROM book_author WHERE id_author = $1", id).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepo) BooksOf(ctx context.Context, id int64) ([]BookRef, error) {
	rows, err := r.st.Query(ctx, `
		SELECT b.id, b.title
		FROM book b
		JOIN book_author ba ON b.id = ba.id_book
		WHERE ba.id_author = $1
		ORDER BY b.title`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookRef
	for rows.Next() {
		var b BookRef
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
