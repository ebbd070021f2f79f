package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/folioapi/folio/internal/model"
)

const submissionColumns = `id, name, email, message, ip_address, user_agent,
	submitted_at, is_read, is_archived, read_at, notes, created_at, updated_at`

// CreateSubmission inserts a new contact submission and populates sub.ID and
// the server-side timestamps. submitted_at is immutable after this point.
func (s *Store) CreateSubmission(ctx context.Context, sub *model.Submission) error {
	now := time.Now().UTC()
	sub.SubmittedAt = now
	sub.CreatedAt = now
	sub.UpdatedAt = now

	const q = `INSERT INTO contact_submissions
		(name, email, message, ip_address, user_agent, submitted_at,
		 is_read, is_archived, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		sub.Name, sub.Email, sub.Message, sub.IPAddress, sub.UserAgent,
		sub.SubmittedAt, sub.IsRead, sub.IsArchived, sub.Notes,
		sub.CreatedAt, sub.UpdatedAt,
	}

	// Postgres reports generated keys through RETURNING, not LastInsertId.
	if s.driver == "postgres" {
		if err := s.db.QueryRowxContext(ctx, s.rebind(q+" RETURNING id"), args...).Scan(&sub.ID); err != nil {
			return fmt.Errorf("insert submission: %w", err)
		}
		return nil
	}

	result, err := s.db.ExecContext(ctx, s.rebind(q), args...)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get submission id: %w", err)
	}
	sub.ID = id
	return nil
}

// GetSubmission returns a single submission by id.
func (s *Store) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	var sub model.Submission
	q := s.rebind(`SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id = ?`)
	if err := s.db.GetContext(ctx, &sub, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissions returns submissions matching the filter, newest first,
// along with the total count of matching rows. Page defaults to 1; limit
// defaults to 20 and is capped at 100.
func (s *Store) ListSubmissions(ctx context.Context, f model.SubmissionFilter) ([]model.Submission, int64, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	var conds []string
	var args []any

	if f.IsRead != nil {
		conds = append(conds, "is_read = ?")
		args = append(args, *f.IsRead)
	}
	if f.IsArchived != nil {
		conds = append(conds, "is_archived = ?")
		args = append(args, *f.IsArchived)
	}
	if f.Search != "" {
		// LOWER(...) LIKE keeps the substring match case-insensitive on
		// every supported driver (ILIKE is postgres-only).
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(message) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQ := s.rebind("SELECT COUNT(*) FROM contact_submissions" + where)
	if err := s.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	listQ := s.rebind(`SELECT ` + submissionColumns + ` FROM contact_submissions` + where +
		` ORDER BY submitted_at DESC, id DESC LIMIT ? OFFSET ?`)
	args = append(args, limit, offset)

	subs := []model.Submission{}
	if err := s.db.SelectContext(ctx, &subs, listQ, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return subs, total, nil
}

// UpdateSubmission applies a partial update. Setting IsRead true stamps
// read_at on the first transition only; read_at is never cleared. An empty
// patch returns the row unmodified.
func (s *Store) UpdateSubmission(ctx context.Context, id int64, patch model.SubmissionPatch) (*model.Submission, error) {
	existing, err := s.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return existing, nil
	}

	now := time.Now().UTC()
	var sets []string
	var args []any

	if patch.IsRead != nil {
		sets = append(sets, "is_read = ?")
		args = append(args, *patch.IsRead)
		if *patch.IsRead && existing.ReadAt == nil {
			sets = append(sets, "read_at = ?")
			args = append(args, now)
		}
	}
	if patch.IsArchived != nil {
		sets = append(sets, "is_archived = ?")
		args = append(args, *patch.IsArchived)
	}
	if patch.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *patch.Notes)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now)
	args = append(args, id)

	q := s.rebind("UPDATE contact_submissions SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	return s.GetSubmission(ctx, id)
}
