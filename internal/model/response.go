package model

// Pagination is the page metadata returned alongside submission listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// SubmissionList is the envelope for GET /api/submissions.
type SubmissionList struct {
	Success     bool         `json:"success"`
	Submissions []Submission `json:"submissions"`
	Pagination  Pagination   `json:"pagination"`
}

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
// Details carries field-level validation messages when present.
type ErrorDetail struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError names a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
