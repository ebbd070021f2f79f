package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Notification carries the fields rendered into the admin email.
type Notification struct {
	SubmissionID int64
	Name         string
	Email        string
	Message      string
	SubmittedAt  time.Time
}

// Subject returns the email subject line for this notification.
func (n Notification) Subject() string {
	return fmt.Sprintf("New contact form submission from %s", n.Name)
}

// html/template escapes every field, so submitted content can't inject
// markup into the email.
var notificationTmpl = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; max-width: 600px; margin: 0 auto; color: #1f2937;">
    <h2 style="border-bottom: 2px solid #84cc16; padding-bottom: 8px;">New Contact Form Submission</h2>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Message:</strong></p>
    <blockquote style="background: #f9fafb; border-left: 4px solid #84cc16; padding: 12px; white-space: pre-wrap;">{{.Message}}</blockquote>
    <p style="font-size: 12px; color: #9ca3af;">
      Submission #{{.SubmissionID}}<br>
      Submitted at {{.SubmittedAt.Format "Mon, 02 Jan 2006 15:04:05 MST"}}
    </p>
    <p style="font-size: 12px; color: #9ca3af;">Reply directly to {{.Email}} to respond to this inquiry.</p>
  </body>
</html>
`))

// Render produces the HTML body for the notification email.
func (n Notification) Render() (string, error) {
	var buf bytes.Buffer
	if err := notificationTmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("render notification: %w", err)
	}
	return buf.String(), nil
}
