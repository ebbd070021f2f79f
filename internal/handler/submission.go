package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/store"
)

// SubmissionHandler serves the auth-gated admin dashboard endpoints.
type SubmissionHandler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(st *store.Store, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{store: st, logger: logger}
}

// List handles GET /api/submissions with page/limit, isRead/isArchived
// filters, and a case-insensitive substring search across name, email, and
// message. Rows come back newest first.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.SubmissionFilter{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", 20),
		IsRead:     queryBoolPtr(r, "isRead"),
		IsArchived: queryBoolPtr(r, "isArchived"),
		Search:     r.URL.Query().Get("search"),
	}

	subs, total, err := h.store.ListSubmissions(r.Context(), filter)
	if err != nil {
		h.logger.Error("list submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	writeJSON(w, http.StatusOK, model.SubmissionList{
		Success:     true,
		Submissions: subs,
		Pagination: model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    page < totalPages,
		},
	})
}

// Get handles GET /api/submissions/{id}.
func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	sub, err := h.store.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.Error("get submission", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submission")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submission": sub})
}

// Update handles PATCH /api/submissions/{id}: a partial update of isRead,
// isArchived, and notes. Marking a submission read stamps readAt the first
// time; an empty patch returns the row unchanged.
func (h *SubmissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	var patch model.SubmissionPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if details := validatePatch(patch); len(details) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", details...)
		return
	}

	sub, err := h.store.UpdateSubmission(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.Error("update submission", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update submission")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submission": sub})
}

// submissionID parses the {id} URL parameter, writing a 404 for garbage so
// /api/submissions/abc behaves the same as a missing row.
func (h *SubmissionHandler) submissionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "Submission not found")
		return 0, false
	}
	return id, true
}
