package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/service"
)

type contextKeyAuth string

// AdminUserKey is the context key for the authenticated admin.
const AdminUserKey contextKeyAuth = "admin_user"

// Authenticate returns an HTTP middleware that validates the request's
// Authorization: Bearer token. Missing, malformed, expired, and revoked
// tokens all produce the same generic 401. On success the current admin
// account is attached to the request context.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			admin, err := authSvc.VerifyToken(r.Context(), token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), AdminUserKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdmin extracts the authenticated admin from the context. Returns nil
// for unauthenticated requests.
func GetAdmin(ctx context.Context) *model.AdminUser {
	if a, ok := ctx.Value(AdminUserKey).(*model.AdminUser); ok {
		return a
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid an import cycle with handler.
	w.Write([]byte(`{"error":{"code":` + strconv.Itoa(status) + `,"message":"` + message + `"}}`))
}
