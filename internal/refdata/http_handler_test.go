package refdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/testutil"
)

type stubLister struct {
	statuses []Status
	formats  []Format
	err      error
}

func (s *stubLister) Statuses(ctx context.Context) ([]Status, error) {
	return s.statuses, s.err
}

func (s *stubLister) Formats(ctx context.Context) ([]Format, error) {
	return s.formats, s.err
}

func TestStatuses(t *testing.T) {
	h := NewHTTPHandler(&stubLister{statuses: []Status{{ID: 1, Name: "Manuscript"}}})

	rec := httptest.NewRecorder()
	h.Statuses(rec, testutil.NewRequest(http.MethodGet, "/statuses", nil))

	resp := testutil.RecordHTTPResponse(rec)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Manuscript", data[0].(map[string]any)["name"])
}

func TestFormats(t *testing.T) {
	h := NewHTTPHandler(&stubLister{formats: []Format{{ID: 2, Name: "Paperback", Shortname: "PB"}}})

	rec := httptest.NewRecorder()
	h.Formats(rec, testutil.NewRequest(http.MethodGet, "/formats", nil))

	resp := testutil.RecordHTTPResponse(rec)
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.Body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "PB", data[0].(map[string]any)["shortname"])
}

func TestFormats_Error(t *testing.T) {
	h := NewHTTPHandler(&stubLister{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Formats(rec, testutil.NewRequest(http.MethodGet, "/formats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
