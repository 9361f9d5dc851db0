package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertSQL(t *testing.T) {
	sql, args, err := insertSQL("book", map[string]any{
		"title":   "The Trial",
		"pages":   255,
		"invoice": false,
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO book (invoice, pages, title) VALUES ($1, $2, $3) RETURNING id", sql)
	assert.Equal(t, []any{false, 255, "The Trial"}, args)
}

func TestInsertSQL_RejectsUnknownIdentifiers(t *testing.T) {
	_, _, err := insertSQL("users", map[string]any{"name": "x"})
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "identifier", serr.Op)

	_, _, err = insertSQL("book", map[string]any{"title": "x", "drop table": "y"})
	require.Error(t, err)

	// value content is never an identifier problem
	_, _, err = insertSQL("book", map[string]any{"title": "Robert'); DROP TABLE book;--"})
	assert.NoError(t, err)
}

func TestUpdateSQL(t *testing.T) {
	sql, args, err := updateSQL("author", 7, map[string]any{
		"name":  "Kafka",
		"fname": "Franz",
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE author SET fname = $1, name = $2 WHERE id = $3", sql)
	assert.Equal(t, []any{"Franz", "Kafka", int64(7)}, args)
}

func TestUpdateSQL_RejectsColumnFromOtherTable(t *testing.T) {
	// "shortname" is valid on formating, not on author
	_, _, err := updateSQL("author", 1, map[string]any{"shortname": "x"})
	assert.Error(t, err)
}

// fakeTx only has to satisfy the pgx.Tx type for the context check; no
// method is ever called.
type fakeTx struct{ pgx.Tx }

func TestWithTx_RejectsNesting(t *testing.T) {
	s := New(nil)
	ctx := context.WithValue(context.Background(), txKey{}, fakeTx{})

	require.True(t, s.InTransaction(ctx))
	err := s.WithTx(ctx, func(ctx context.Context) error {
		t.Fatal("fn must not run inside an open transaction")
		return nil
	})
	assert.ErrorIs(t, err, ErrNestedTransaction)
}

func TestInTransaction_FalseOnPlainContext(t *testing.T) {
	s := New(nil)
	assert.False(t, s.InTransaction(context.Background()))
}
