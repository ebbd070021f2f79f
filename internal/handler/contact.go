package handler

import (
	"log/slog"
	"net/http"

	"github.com/folioapi/folio/internal/mail"
	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/ratelimit"
	"github.com/folioapi/folio/internal/store"
)

// ContactHandler serves the public contact-form endpoint.
type ContactHandler struct {
	store    *store.Store
	limiter  ratelimit.Limiter
	notifier *mail.Notifier
	logger   *slog.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(st *store.Store, limiter ratelimit.Limiter, notifier *mail.Notifier, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		store:    st,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type contactResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SubmissionID int64  `json:"submissionId"`
}

// Submit handles POST /api/contact: validate, rate-limit by client IP,
// persist, then hand off the admin notification. The notification is
// asynchronous and its failure never fails the request or rolls back the
// insert.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name, message, details := validateContact(req.Name, req.Email, req.Message)
	if len(details) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", details...)
		return
	}

	ip := clientIP(r)
	allowed, err := h.limiter.Allow(r.Context(), ip)
	if err != nil {
		// A broken limiter store (e.g. Redis down) shouldn't take the
		// contact form down with it.
		h.logger.Error("rate limiter check failed", "error", err)
		allowed = true
	}
	if !allowed {
		writeError(w, http.StatusTooManyRequests,
			"You have exceeded the maximum number of submissions. Please try again later.")
		return
	}

	sub := &model.Submission{
		Name:    name,
		Email:   req.Email,
		Message: message,
	}
	if ip != "" {
		sub.IPAddress = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		sub.UserAgent = &ua
	}

	if err := h.store.CreateSubmission(r.Context(), sub); err != nil {
		h.logger.Error("insert submission", "error", err)
		writeError(w, http.StatusInternalServerError,
			"Failed to submit your message. Please try again later.")
		return
	}

	h.notifier.Notify(mail.Notification{
		SubmissionID: sub.ID,
		Name:         sub.Name,
		Email:        sub.Email,
		Message:      sub.Message,
		SubmittedAt:  sub.SubmittedAt,
	})

	writeJSON(w, http.StatusOK, contactResponse{
		Success:      true,
		Message:      "Thank you for your message! I will get back to you soon.",
		SubmissionID: sub.ID,
	})
}
