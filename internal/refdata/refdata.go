// Package refdata serves the small reference tables the catalog hangs
// off: workflow statuses and physical formats. Both are read-only over
// the API; rows come in via migrations or the seeder.
package refdata

import (
	"context"

	"bookcatalog/internal/store"
)

// Status is one step of the publishing workflow.
type Status struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Format is a publication format with its display shortname.
type Format struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Shortname string `json:"shortname"`
}

type Repo struct {
	st *store.Store
}

func NewRepo(st *store.Store) *Repo {
	return &Repo{st: st}
}

func (r *Repo) Statuses(ctx context.Context) ([]Status, error) {
	rows, err := r.st.Query(ctx, "SELECT id, name FROM status ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Status
	for rows.Next() {
		var s Status
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Formats(ctx context.Context) ([]Format, error) {
	rows, err := r.st.Query(ctx, "SELECT id, name, shortname FROM formating ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Format
	for rows.Next() {
		var f Format
		if err := rows.Scan(&f.ID, &f.Name, &f.Shortname); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
