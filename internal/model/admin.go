package model

import "time"

// AdminUser is a dashboard account. Rows are created only through the CLI
// (folio admin create), never through the HTTP API. Passwords are stored
// as bcrypt hashes.
type AdminUser struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	Email        string     `json:"email" db:"email"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
}

// Public returns the fields safe to hand to API clients.
func (a *AdminUser) Public() PublicAdmin {
	return PublicAdmin{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
	}
}

// PublicAdmin is the admin profile embedded in login and verify responses.
type PublicAdmin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
