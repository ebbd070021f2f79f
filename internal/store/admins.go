package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/folioapi/folio/internal/model"
)

// CreateAdmin inserts a new admin account. The password must already be
// bcrypt-hashed by the caller.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.AdminUser) error {
	admin.CreatedAt = time.Now().UTC()

	const q = `INSERT INTO admin_users (username, password_hash, email, created_at)
		VALUES (?, ?, ?, ?)`
	args := []any{admin.Username, admin.PasswordHash, admin.Email, admin.CreatedAt}

	if s.driver == "postgres" {
		if err := s.db.QueryRowxContext(ctx, s.rebind(q+" RETURNING id"), args...).Scan(&admin.ID); err != nil {
			return fmt.Errorf("insert admin: %w", err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, s.rebind(q), args...)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get admin id: %w", err)
	}
	admin.ID = id
	return nil
}

// GetAdminByUsername returns the admin account with the given username.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var admin model.AdminUser
	q := s.rebind(`SELECT id, username, password_hash, email, created_at, last_login
		FROM admin_users WHERE username = ?`)
	if err := s.db.GetContext(ctx, &admin, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *Store) ListAdmins(ctx context.Context) ([]model.AdminUser, error) {
	admins := []model.AdminUser{}
	q := `SELECT id, username, password_hash, email, created_at, last_login
		FROM admin_users ORDER BY username`
	if err := s.db.SelectContext(ctx, &admins, q); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// HasAnyAdmin reports whether at least one admin account exists.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admin_users"); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// UpdateAdminLastLogin stamps last_login for a successful login.
func (s *Store) UpdateAdminLastLogin(ctx context.Context, id int64) error {
	q := s.rebind("UPDATE admin_users SET last_login = ? WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdateAdminPassword replaces the stored password hash for the named admin.
func (s *Store) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	q := s.rebind("UPDATE admin_users SET password_hash = ? WHERE username = ?")
	result, err := s.db.ExecContext(ctx, q, passwordHash, username)
	if err != nil {
		return fmt.Errorf("update admin password: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
