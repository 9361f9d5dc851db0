package author

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/store"
	"bookcatalog/internal/validate"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type authorReq struct {
	Name  string `json:"name" validate:"required,max=100"`
	FName string `json:"fname" validate:"required,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (req authorReq) input() Input {
	return Input{Name: req.Name, FName: req.FName, Email: req.Email}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func validationDetails(errs *validate.Errors) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, errs.Len())
	for _, field := range errs.Fields() {
		details = append(details, httpx.ErrorDetail{Field: field, Message: errs.Get(field)})
	}
	return details
}

// List handles GET /authors
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := ListQuery{
		Name:      query.Get("name"),
		SortBy:    query.Get("sort"),
		SortOrder: query.Get("order"),
	}

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	params.Page = page
	params.PageSize = pageSize

	authors, err := h.service.GetAuthors(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	total, err := h.service.GetAuthorsCount(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, authors, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /authors/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid author id", nil)
		return
	}

	a, err := h.service.GetAuthor(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Author not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Create handles POST /authors
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req authorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", details)
		return
	}

	id, err := h.service.CreateAuthor(r.Context(), req.input())
	if err != nil {
		var verrs *validate.Errors
		if errors.As(err, &verrs) {
			httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", validationDetails(verrs))
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONCreated(w, r, map[string]any{"id": id})
}

// Update handles PUT /authors/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid author id", nil)
		return
	}

	var req authorReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", details)
		return
	}

	if err := h.service.UpdateAuthor(r.Context(), id, req.input()); err != nil {
		var verrs *validate.Errors
		switch {
		case errors.As(err, &verrs):
			httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", validationDetails(verrs))
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Author not found", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		}
		return
	}

	httpx.JSONNoContent(w)
}

// Delete handles DELETE /authors/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid author id", nil)
		return
	}

	if err := h.service.DeleteAuthor(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrHasBooks):
			httpx.JSONError(w, r, http.StatusConflict, "has_books", "Author still has book associations", nil)
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Author not found", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		}
		return
	}

	httpx.JSONNoContent(w)
}

// Search handles GET /authors/search?q=term
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	suggestions, err := h.service.SearchByName(r.Context(), query.Get("q"), limit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, suggestions, nil)
}

// Recent handles GET /authors/recent
func (h *HTTPHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	authors, err := h.service.GetRecent(r.Context(), limit)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, authors, nil)
}

// Books handles GET /authors/{id}/books
func (h *HTTPHandler) Books(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid author id", nil)
		return
	}

	books, err := h.service.GetBooks(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	count, err := h.service.GetBookCount(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{"count": count})
}
