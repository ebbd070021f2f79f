package model

import "time"

// Submission is a single contact-form submission. Rows are inserted by the
// public contact endpoint and mutated only through the admin PATCH path;
// nothing ever deletes them.
type Submission struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	Message     string     `json:"message" db:"message"`
	IPAddress   *string    `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent   *string    `json:"userAgent,omitempty" db:"user_agent"`
	SubmittedAt time.Time  `json:"submittedAt" db:"submitted_at"`
	IsRead      bool       `json:"isRead" db:"is_read"`
	IsArchived  bool       `json:"isArchived" db:"is_archived"`
	ReadAt      *time.Time `json:"readAt" db:"read_at"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// SubmissionFilter narrows ListSubmissions. Nil booleans mean "don't filter".
// Search matches name, email, or message case-insensitively as a substring.
type SubmissionFilter struct {
	IsRead     *bool
	IsArchived *bool
	Search     string
	Page       int
	Limit      int
}

// SubmissionPatch is a partial update applied by the admin dashboard.
// Nil fields are left untouched. Setting IsRead true stamps ReadAt the
// first time; ReadAt is never cleared afterwards.
type SubmissionPatch struct {
	IsRead     *bool   `json:"isRead"`
	IsArchived *bool   `json:"isArchived"`
	Notes      *string `json:"notes"`
}

// IsEmpty reports whether the patch would change nothing.
func (p SubmissionPatch) IsEmpty() bool {
	return p.IsRead == nil && p.IsArchived == nil && p.Notes == nil
}
