package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/service"
)

// AuthHandler serves admin login and token verification.
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, logger: logger}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    model.PublicAdmin `json:"user"`
}

// Login handles POST /api/auth/login. Unknown usernames and wrong passwords
// produce byte-identical 401 responses so accounts can't be enumerated.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if details := validateLogin(req.Username, req.Password); len(details) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", details...)
		return
	}

	token, admin, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed. Please try again later.")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    admin.Public(),
	})
}

type verifyResponse struct {
	Valid bool              `json:"valid"`
	User  model.PublicAdmin `json:"user"`
}

// Verify handles GET /api/auth/verify: decodes the bearer token and
// re-checks the account still exists, returning the current profile.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"valid": false,
			"error": "No token provided",
		})
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	admin, err := h.authSvc.VerifyToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"valid": false,
				"error": "Invalid or expired token",
			})
			return
		}
		h.logger.Error("verify token", "error", err)
		writeError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Valid: true,
		User:  admin.Public(),
	})
}
