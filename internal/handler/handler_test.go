package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/folioapi/folio/internal/mail"
	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/ratelimit"
	"github.com/folioapi/folio/internal/server/middleware"
	"github.com/folioapi/folio/internal/service"
	"github.com/folioapi/folio/internal/store"
)

const (
	testJWTSecret = "test-secret-for-handler-tests"
	testPassword  = "supersecretpassword"

	// Short enough that rate-limit reset tests can sleep through a window.
	testRateWindow = 100 * time.Millisecond
	testRateMax    = 3
)

// testEnv holds shared state for handler integration tests.
type testEnv struct {
	store   *store.Store
	authSvc *service.AuthService
	router  chi.Router
}

// newTestEnv creates a fresh test environment with an in-memory SQLite
// store, a disabled mail notifier, a tight fixed-window limiter, and a Chi
// router with the API routes mounted the way the server mounts them.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(store.DefaultOptions()) // in-memory SQLite
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := service.NewAuthService(st, testJWTSecret, time.Hour)
	limiter := ratelimit.NewFixedWindow(testRateMax, testRateWindow)
	notifier := mail.NewNotifier(nil, logger) // disabled

	contactHandler := NewContactHandler(st, limiter, notifier, logger)
	authHandler := NewAuthHandler(authSvc, logger)
	subHandler := NewSubmissionHandler(st, logger)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", contactHandler.Submit)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/verify", authHandler.Verify)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authSvc))
			r.Get("/submissions", subHandler.List)
			r.Get("/submissions/{id}", subHandler.Get)
			r.Patch("/submissions/{id}", subHandler.Update)
		})
	})

	return &testEnv{
		store:   st,
		authSvc: authSvc,
		router:  r,
	}
}

// seedAdmin creates a default admin account and returns it.
func (e *testEnv) seedAdmin(t *testing.T) *model.AdminUser {
	t.Helper()
	hash, err := service.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &model.AdminUser{
		Username:     "admin",
		PasswordHash: hash,
		Email:        "admin@example.com",
	}
	if err := e.store.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}
	return admin
}

// token returns a valid bearer token for the seeded admin.
func (e *testEnv) token(t *testing.T, admin *model.AdminUser) string {
	t.Helper()
	tok, err := e.authSvc.IssueToken(admin.ID, admin.Username)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

// seedSubmission inserts a submission directly through the store.
func (e *testEnv) seedSubmission(t *testing.T, name, email, message string) *model.Submission {
	t.Helper()
	sub := &model.Submission{Name: name, Email: email, Message: message}
	if err := e.store.CreateSubmission(context.Background(), sub); err != nil {
		t.Fatalf("seedSubmission: %v", err)
	}
	return sub
}

// do executes an HTTP request against the test router. body may be nil; a
// non-nil body is JSON-encoded. token, when non-empty, becomes the bearer
// credential. remoteAddr, when non-empty, overrides the request's source.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// doWithHeader is do with one extra request header set.
func (e *testEnv) doWithHeader(t *testing.T, method, path string, body interface{}, header, value, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(header, value)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

// fieldErrors extracts the validation detail fields from an error response.
func fieldErrors(t *testing.T, rr *httptest.ResponseRecorder) []model.FieldError {
	t.Helper()
	var resp model.ErrorResponse
	decode(t, rr, &resp)
	return resp.Error.Details
}

// hasFieldError reports whether details names the given field.
func hasFieldError(details []model.FieldError, field string) bool {
	for _, d := range details {
		if d.Field == field {
			return true
		}
	}
	return false
}
