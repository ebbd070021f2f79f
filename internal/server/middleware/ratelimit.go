package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// LoginRateLimit returns an HTTP middleware throttling login attempts per
// IP, as brute-force protection on the credential endpoint. This is
// separate from the contact-form fixed-window limiter, which enforces the
// submission quota.
func LoginRateLimit(attemptsPerMinute int) func(http.Handler) http.Handler {
	return httprate.LimitByIP(attemptsPerMinute, time.Minute)
}
