package book

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortColumn(t *testing.T) {
	assert.Equal(t, "title", sortColumn("title"))
	assert.Equal(t, "date_start", sortColumn("date_start"))
	assert.Equal(t, "id", sortColumn(""))
	assert.Equal(t, "id", sortColumn("pages; DROP TABLE book"))
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", sortOrder("asc"))
	assert.Equal(t, "ASC", sortOrder("ASC"))
	assert.Equal(t, "DESC", sortOrder(""))
	assert.Equal(t, "DESC", sortOrder("sideways"))
}

func TestBuildFilter_Empty(t *testing.T) {
	where, args := buildFilter(ListQuery{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildFilter_TitleAndAuthor(t *testing.T) {
	where, args := buildFilter(ListQuery{Title: "go", Author: "pike"})

	assert.Equal(t, "1=1 AND b.title ILIKE $1 AND (a.fname ILIKE $2 OR a.name ILIKE $3)", where)
	require.Len(t, args, 3)
	assert.Equal(t, "%go%", args[0])
	assert.Equal(t, "%pike%", args[1])
	assert.Equal(t, "%pike%", args[2])
}

func TestBuildFilter_ZeroValuedFiltersStillApply(t *testing.T) {
	status := int64(0)
	invoice := false
	where, args := buildFilter(ListQuery{StatusID: &status, Invoice: &invoice})

	assert.Equal(t, "1=1 AND b.id_status = $1 AND b.invoice = $2", where)
	require.Len(t, args, 2)
	assert.Equal(t, int64(0), args[0])
	assert.Equal(t, false, args[1])
}

func TestBuildFilter_NilMeansUnfiltered(t *testing.T) {
	where, args := buildFilter(ListQuery{Title: "go"})
	assert.NotContains(t, where, "id_status")
	assert.NotContains(t, where, "invoice")
	assert.Len(t, args, 1)
}

func TestStatusReport_InvoiceAndFrom(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	sql, extra := statusReport(true, &from)
	assert.Contains(t, sql, "b.id_status = $1")
	assert.Contains(t, sql, "b.invoice = false")
	assert.Contains(t, sql, "b.changed >= $2")
	assert.Contains(t, sql, "ORDER BY b.title")
	require.Len(t, extra, 1)
	assert.Equal(t, from, extra[0])

	sql, extra = statusReport(false, nil)
	assert.NotContains(t, sql, "invoice")
	assert.NotContains(t, sql, "changed >=")
	assert.Empty(t, extra)
}

func TestFields_BlankOptionalsBecomeNull(t *testing.T) {
	f := fields(Input{Title: "Go in Production", Note: "", DateStart: "", DateFinish: "2024-05-01"})

	assert.Equal(t, "Go in Production", f["title"])
	assert.Nil(t, f["note"])
	assert.Nil(t, f["date_start"])
	assert.Equal(t, "2024-05-01", *f["date_finish"].(*string))
}
