// Package mail delivers the admin notification email for new contact
// submissions through the Resend HTTP API. Delivery is fire-and-forget:
// the Notifier hands messages to a background worker and a failed send is
// logged and dropped, never surfaced to the submitting visitor.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	resendEndpoint = "https://api.resend.com/emails"
	httpTimeout    = 10 * time.Second
)

// Client is a minimal Resend API client.
type Client struct {
	apiKey     string
	from       string
	to         string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client sending from/to the given addresses.
func NewClient(apiKey, from, to string) *Client {
	return &Client{
		apiKey:     apiKey,
		from:       from,
		to:         to,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// Send posts a single email. replyTo may be empty.
func (c *Client) Send(ctx context.Context, subject, html, replyTo string) error {
	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{c.to},
		Subject: subject,
		HTML:    html,
		ReplyTo: replyTo,
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: %s: %s", resp.Status, bytes.TrimSpace(body))
	}
	return nil
}
