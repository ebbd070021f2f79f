package handler

import (
	"regexp"
	"strings"

	"github.com/folioapi/folio/internal/model"
)

// Size limits for the public contact form and the admin endpoints. These
// mirror the constraints enforced by the dashboard frontend.
const (
	nameMin    = 2
	nameMax    = 100
	emailMax   = 320
	messageMin = 10
	messageMax = 5000
	notesMax   = 1000

	usernameMin = 3
	usernameMax = 100
	passwordMin = 6
)

// emailPattern accepts RFC-shaped addresses without attempting full RFC 5322
// validation; the definitive check is the reply actually reaching the inbox.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateContact trims and checks a contact submission, returning field
// errors for every violation at once. The returned name/message are the
// trimmed values to persist.
func validateContact(name, email, message string) (string, string, []model.FieldError) {
	name = strings.TrimSpace(name)
	message = strings.TrimSpace(message)

	var details []model.FieldError
	if n := len([]rune(name)); n < nameMin {
		details = append(details, model.FieldError{Field: "name", Message: "Name must be at least 2 characters"})
	} else if n > nameMax {
		details = append(details, model.FieldError{Field: "name", Message: "Name must be less than 100 characters"})
	}

	if len(email) > emailMax {
		details = append(details, model.FieldError{Field: "email", Message: "Email must be less than 320 characters"})
	} else if !emailPattern.MatchString(email) {
		details = append(details, model.FieldError{Field: "email", Message: "Invalid email address"})
	}

	if n := len([]rune(message)); n < messageMin {
		details = append(details, model.FieldError{Field: "message", Message: "Message must be at least 10 characters"})
	} else if n > messageMax {
		details = append(details, model.FieldError{Field: "message", Message: "Message must be less than 5000 characters"})
	}

	return name, message, details
}

// validateLogin checks the login payload shape.
func validateLogin(username, password string) []model.FieldError {
	var details []model.FieldError
	if n := len(username); n < usernameMin || n > usernameMax {
		details = append(details, model.FieldError{Field: "username", Message: "Username must be 3-100 characters"})
	}
	if len(password) < passwordMin {
		details = append(details, model.FieldError{Field: "password", Message: "Password must be at least 6 characters"})
	}
	return details
}

// validatePatch checks the submission update payload.
func validatePatch(patch model.SubmissionPatch) []model.FieldError {
	var details []model.FieldError
	if patch.Notes != nil && len([]rune(*patch.Notes)) > notesMax {
		details = append(details, model.FieldError{Field: "notes", Message: "Notes must be less than 1000 characters"})
	}
	return details
}
