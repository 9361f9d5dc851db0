// Package store is the catalog's persistence layer: a thin wrapper around a
// pgx connection pool exposing parameterized row primitives and transaction
// control. Table and column identifiers are only ever interpolated into SQL
// after passing the package allow-list; every value travels as a $n
// parameter.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by reads when no matching row exists. Absence is
// not a failure; callers translate it to an empty result or a 404.
var ErrNotFound = errors.New("record not found")

// ErrNestedTransaction is returned when WithTx is called from inside an
// already-open transaction.
var ErrNestedTransaction = errors.New("store: transaction already open")

// Error wraps an underlying database failure with the operation that hit it.
// The cause is preserved for errors.Is/As.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// allowedColumns is the identifier allow-list: every table the store touches
// and every column that may appear in generated SQL.
var allowedColumns = map[string]map[string]bool{
	"book": {
		"id": true, "title": true, "pages": true, "date_start": true,
		"date_finish": true, "id_status": true, "id_formating": true,
		"invoice": true, "note": true, "changed": true,
	},
	"author": {
		"id": true, "name": true, "fname": true, "email": true,
	},
	"book_author": {
		"id_book": true, "id_author": true, "id_tip": true,
	},
	"status": {
		"id": true, "name": true,
	},
	"formating": {
		"id": true, "name": true, "shortname": true,
	},
	"history": {
		"id": true, "id_book": true, "id_status": true, "inserted": true, "note": true,
	},
}

func checkTable(table string) error {
	if _, ok := allowedColumns[table]; !ok {
		return &Error{Op: "identifier", Err: fmt.Errorf("table %q not allowed", table)}
	}
	return nil
}

func checkColumns(table string, fields map[string]any) error {
	cols := allowedColumns[table]
	for col := range fields {
		if !cols[col] {
			return &Error{Op: "identifier", Err: fmt.Errorf("column %q not allowed on %q", col, table)}
		}
	}
	return nil
}

// querier is the subset of pgx shared by the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is an explicit handle over the connection pool. Construct one at
// process start and inject it into repositories; there is no ambient global.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type txKey struct{}

func txFrom(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// conn routes to the transaction carried by ctx, falling back to the pool.
func (s *Store) conn(ctx context.Context) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return s.pool
}

// InTransaction reports whether ctx carries an open transaction.
func (s *Store) InTransaction(ctx context.Context) bool {
	return txFrom(ctx) != nil
}

// WithTx runs fn inside a single transaction. Every store call made with the
// context passed to fn joins that transaction. A nil return from fn commits;
// an error (or a panic) rolls back, so no transaction can leak on any exit
// path. Nesting is a reentrancy error, not a savepoint.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.InTransaction(ctx) {
		return ErrNestedTransaction
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &Error{Op: "begin", Err: err}
	}
	defer tx.Rollback(ctx) // no-op once committed

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &Error{Op: "commit", Err: err}
	}
	return nil
}

// Find fetches a single row by primary key as a column-to-value map.
// Returns ErrNotFound when the id does not exist.
func (s *Store) Find(ctx context.Context, table string, id int64) (map[string]any, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	rows, err := s.conn(ctx).Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id = $1 LIMIT 1", table), id)
	if err != nil {
		return nil, &Error{Op: "find " + table, Err: err}
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &Error{Op: "find " + table, Err: err}
	}
	return row, nil
}

// insertSQL builds a parameterized INSERT for the allow-listed table and
// columns. Columns are sorted so generated SQL is deterministic.
func insertSQL(table string, fields map[string]any) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if err := checkColumns(table, fields); err != nil {
		return "", nil, err
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = fields[col]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return sql, args, nil
}

// Insert adds a row and returns its generated id.
func (s *Store) Insert(ctx context.Context, table string, fields map[string]any) (int64, error) {
	sql, args, err := insertSQL(table, fields)
	if err != nil {
		return 0, err
	}
	var id int64
	if err := s.conn(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, &Error{Op: "insert " + table, Err: err}
	}
	return id, nil
}

func updateSQL(table string, id int64, fields map[string]any) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	if err := checkColumns(table, fields); err != nil {
		return "", nil, err
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, fields[col])
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(sets, ", "), len(cols)+1)
	return sql, args, nil
}

// Update overwrites the given columns of one row. The bool reports whether a
// row matched.
func (s *Store) Update(ctx context.Context, table string, id int64, fields map[string]any) (bool, error) {
	sql, args, err := updateSQL(table, id, fields)
	if err != nil {
		return false, err
	}
	tag, err := s.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, &Error{Op: "update " + table, Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes one row by primary key. The bool reports whether a row
// matched.
func (s *Store) Delete(ctx context.Context, table string, id int64) (bool, error) {
	if err := checkTable(table); err != nil {
		return false, err
	}
	tag, err := s.conn(ctx).Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return false, &Error{Op: "delete " + table, Err: err}
	}
	return tag.RowsAffected() > 0, nil
}

// Query runs a parameterized SELECT. The caller owns the returned rows.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	rows, err := s.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	return rows, nil
}

// QueryRow runs a parameterized SELECT expected to yield at most one row.
// Errors surface on Scan, per pgx convention.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.conn(ctx).QueryRow(ctx, sql, args...)
}

// Exec runs a parameterized statement and returns the affected row count.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := s.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, &Error{Op: "exec", Err: err}
	}
	return tag.RowsAffected(), nil
}
