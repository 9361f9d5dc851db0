package refdata

import (
	"context"
	"net/http"

	"bookcatalog/internal/httpx"
)

// Lister is what the handler needs from the repository.
type Lister interface {
	Statuses(ctx context.Context) ([]Status, error)
	Formats(ctx context.Context) ([]Format, error)
}

type HTTPHandler struct {
	repo Lister
}

func NewHTTPHandler(repo Lister) *HTTPHandler {
	return &HTTPHandler{repo: repo}
}

// Statuses handles GET /statuses
func (h *HTTPHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.repo.Statuses(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, statuses, nil)
}

// Formats handles GET /formats
func (h *HTTPHandler) Formats(w http.ResponseWriter, r *http.Request) {
	formats, err := h.repo.Formats(r.Context())
	if err != nil {
		httpx.JSONError(w, r, http.StatusInternalServerError, "internal_error", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, formats, nil)
}
