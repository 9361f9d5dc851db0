package author

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSortColumnAndOrder(t *testing.T) {
	assert.Equal(t, "fname", sortColumn("fname"))
	assert.Equal(t, "id", sortColumn("books; --"))
	assert.Equal(t, "ASC", sortOrder(""))
	assert.Equal(t, "DESC", sortOrder("desc"))
}

func TestBuildFilter(t *testing.T) {
	where, args := buildFilter(ListQuery{})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)

	where, args = buildFilter(ListQuery{Name: "pike"})
	assert.Equal(t, "(a.fname ILIKE $1 OR a.name ILIKE $2 OR a.email ILIKE $3)", where)
	assert.Equal(t, []any{"%pike%", "%pike%", "%pike%"}, args)
}

func TestHandlerCreate_RejectsBadPayload(t *testing.T) {
	repo := new(mockRepo)
	h := NewHTTPHandler(NewService(repo))

	body := `{"name":"","fname":"","email":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestHandlerCreate_Success(t *testing.T) {
	repo := new(mockRepo)
	h := NewHTTPHandler(NewService(repo))

	repo.On("Insert", mock.Anything, Input{Name: "Pike", FName: "Rob", Email: "rob@example.com"}).
		Return(int64(3), nil)

	body := `{"name":"Pike","fname":"Rob","email":"rob@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/authors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(3), resp["data"].(map[string]any)["id"])
}

func TestHandlerDelete_ConflictWhenAuthorHasBooks(t *testing.T) {
	repo := new(mockRepo)
	h := NewHTTPHandler(NewService(repo))

	repo.On("HasBooks", mock.Anything, int64(3)).Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/authors/3", nil)
	req.SetPathValue("id", "3")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "has_books", resp["error"].(map[string]any)["code"])
}

func TestHandlerSearch_PassesTermAndLimit(t *testing.T) {
	repo := new(mockRepo)
	h := NewHTTPHandler(NewService(repo))

	repo.On("SearchByName", mock.Anything, "pike", 5).
		Return([]Suggestion{{ID: 3, Label: "Rob Pike"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/authors/search?q=pike&limit=5", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
