package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/store"
)

const (
	defaultImportLimit = 50
	maxImportLimit     = 500
	importsTimeout     = 3 * time.Second
)

// ImportsHandler exposes read-only import history endpoints.
type ImportsHandler struct {
	repo    store.ImportRepository
	timeout time.Duration
	logger  *zap.Logger
}

// NewImportsHandler wires the repository and logger.
func NewImportsHandler(repo store.ImportRepository, logger *zap.Logger) *ImportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportsHandler{repo: repo, timeout: importsTimeout, logger: logger}
}

// List handles GET /api/imports?status=&limit=&offset=. It returns
// {"imports": [...]} newest first, 400 for invalid filters, 503 when no
// repository is wired, or 500 if the repository call fails.
func (h *ImportsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "import repository unavailable")
		return
	}
	limit, offset, err := parseLimitOffset(r, defaultImportLimit, maxImportLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var status *catalog.JobStatus
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, parseErr := parseStatus(raw)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		status = &parsed
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	records, err := h.repo.List(ctx, status, limit, offset)
	if err != nil {
		h.logger.Error("list imports failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list imports")
		return
	}
	if records == nil {
		records = []store.ImportRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"imports": records})
}

// Get handles GET /api/imports/{job_id}. It returns {"import": {...}}, 404
// for unknown jobs, or 500 otherwise.
func (h *ImportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeError(w, http.StatusServiceUnavailable, "import repository unavailable")
		return
	}
	jobID := strings.TrimSpace(chi.URLParam(r, "job_id"))
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rec, err := h.repo.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "import not found")
			return
		}
		h.logger.Error("get import failed", zap.String("job_id", jobID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load import")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"import": rec})
}

func parseLimitOffset(r *http.Request, def, maxLimit int) (int, int, error) {
	q := r.URL.Query()
	limit := def
	if limStr := q.Get("limit"); limStr != "" {
		val, err := strconv.Atoi(limStr)
		if err != nil || val <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = min(val, maxLimit)
	}
	offset := 0
	if offStr := q.Get("offset"); offStr != "" {
		val, err := strconv.Atoi(offStr)
		if err != nil || val < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = val
	}
	return limit, offset, nil
}

func parseStatus(input string) (catalog.JobStatus, error) {
	switch s := catalog.JobStatus(strings.ToLower(input)); s {
	case catalog.JobQueued, catalog.JobRunning, catalog.JobCompleted, catalog.JobFailed:
		return s, nil
	default:
		return "", errors.New("invalid status")
	}
}
