package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

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

type bookReq struct {
	Title      string  `json:"title" validate:"required,max=255"`
	Pages      *int    `json:"pages" validate:"omitempty,gte=0"`
	DateStart  string  `json:"date_start" validate:"omitempty,datetime=2006-01-02"`
	DateFinish string  `json:"date_finish" validate:"omitempty,datetime=2006-01-02"`
	StatusID   *int64  `json:"status_id" validate:"omitempty,gte=1"`
	FormatID   *int64  `json:"format_id" validate:"omitempty,gte=1"`
	Invoice    bool    `json:"invoice"`
	Note       string  `json:"note"`
	AuthorIDs  []int64 `json:"author_ids" validate:"dive,gte=1"`
}

func (req bookReq) input() Input {
	return Input{
		Title:      req.Title,
		Pages:      req.Pages,
		DateStart:  req.DateStart,
		DateFinish: req.DateFinish,
		StatusID:   req.StatusID,
		FormatID:   req.FormatID,
		Invoice:    req.Invoice,
		Note:       req.Note,
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// validationDetails flattens the service-level field errors into the
// response detail list, preserving check order.
func validationDetails(errs *validate.Errors) []httpx.ErrorDetail {
	details := make([]httpx.ErrorDetail, 0, errs.Len())
	for _, field := range errs.Fields() {
		details = append(details, httpx.ErrorDetail{Field: field, Message: errs.Get(field)})
	}
	return details
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := ListQuery{
		Title:     query.Get("title"),
		Author:    query.Get("author"),
		SortBy:    query.Get("sort"),
		SortOrder: query.Get("order"),
	}

	// "status=0" and "invoice=false" are real filters, so presence matters,
	// not just value.
	if statusStr := query.Get("status"); statusStr != "" {
		if val, err := strconv.ParseInt(statusStr, 10, 64); err == nil {
			params.StatusID = &val
		}
	}

	if invoiceStr := query.Get("invoice"); invoiceStr != "" {
		if val, err := strconv.ParseBool(invoiceStr); err == nil {
			params.Invoice = &val
		}
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

	books, err := h.service.GetBooks(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	total, err := h.service.GetBooksCount(r.Context(), params)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": (total + pageSize - 1) / pageSize,
	})
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid book id", nil)
		return
	}

	b, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", details)
		return
	}

	id, err := h.service.CreateBook(r.Context(), req.input(), req.AuthorIDs)
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

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid book id", nil)
		return
	}

	var req bookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", details)
		return
	}

	if err := h.service.UpdateBook(r.Context(), id, req.input(), req.AuthorIDs); err != nil {
		var verrs *validate.Errors
		switch {
		case errors.As(err, &verrs):
			httpx.JSONError(w, r, http.StatusBadRequest, "validation_error", "Invalid input", validationDetails(verrs))
		case errors.Is(err, store.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Book not found", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		}
		return
	}

	httpx.JSONNoContent(w)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid book id", nil)
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "not_found", "Book not found", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONNoContent(w)
}

// Authors handles GET /books/{id}/authors
func (h *HTTPHandler) Authors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid book id", nil)
		return
	}

	authors, err := h.service.GetBookAuthors(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, authors, nil)
}

// History handles GET /books/{id}/history
func (h *HTTPHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid book id", nil)
		return
	}

	entries, err := h.service.GetHistory(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, entries, nil)
}

// StatusReport handles GET /reports/status/{id}. "invoice=none" restricts
// the listing to books not yet invoiced; "from=YYYY-MM-DD" keeps only books
// whose last status change is on or after that date.
func (h *HTTPHandler) StatusReport(w http.ResponseWriter, r *http.Request) {
	statusID, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "Invalid status id", nil)
		return
	}

	query := r.URL.Query()

	var from *time.Time
	if fromStr := query.Get("from"); fromStr != "" {
		val, err := time.Parse(validate.DateLayout, fromStr)
		if err != nil {
			httpx.JSONError(w, r, http.StatusBadRequest, "bad_request", "from must be a YYYY-MM-DD date", nil)
			return
		}
		from = &val
	}

	var (
		books []StatusBook
		err   error
	)
	if query.Get("invoice") == "none" {
		books, err = h.service.GetBooksByStatusWithoutInvoice(r.Context(), statusID, from)
	} else {
		books, err = h.service.GetBooksByStatus(r.Context(), statusID, from)
	}
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	totalPages, err := h.service.GetTotalPagesByStatus(r.Context(), statusID, from)
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}

	httpx.JSONSuccess(w, r, books, map[string]any{
		"count":       len(books),
		"total_pages": totalPages,
	})
}
