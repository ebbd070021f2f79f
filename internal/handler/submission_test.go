package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/folioapi/folio/internal/model"
)

// submissionEnvelope matches the single-submission response shape.
type submissionEnvelope struct {
	Submission model.Submission `json:"submission"`
}

// ----------------------------------------------------------------------------
// Auth gate
// ----------------------------------------------------------------------------

func TestSubmissionsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")

	paths := []struct {
		method, path string
	}{
		{"GET", "/api/submissions"},
		{"GET", fmt.Sprintf("/api/submissions/%d", sub.ID)},
		{"PATCH", fmt.Sprintf("/api/submissions/%d", sub.ID)},
	}
	for _, p := range paths {
		rr := env.do(t, p.method, p.path, nil, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", p.method, p.path, rr.Code)
		}
	}
}

// ----------------------------------------------------------------------------
// List
// ----------------------------------------------------------------------------

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	for i := 0; i < 25; i++ {
		env.seedSubmission(t,
			fmt.Sprintf("Sender %02d", i),
			fmt.Sprintf("sender%02d@example.com", i),
			"A long enough message body for pagination tests.")
	}

	rr := env.do(t, "GET", "/api/submissions?page=1&limit=10", nil, tok, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var list model.SubmissionList
	decode(t, rr, &list)
	if len(list.Submissions) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(list.Submissions))
	}
	p := list.Pagination
	if p.Page != 1 || p.Limit != 10 || p.Total != 25 || p.TotalPages != 3 || !p.HasMore {
		t.Errorf("unexpected pagination: %+v", p)
	}

	// Last page holds the remainder and reports no further pages.
	rr = env.do(t, "GET", "/api/submissions?page=3&limit=10", nil, tok, "")
	decode(t, rr, &list)
	if len(list.Submissions) != 5 {
		t.Errorf("expected 5 rows on last page, got %d", len(list.Submissions))
	}
	if list.Pagination.HasMore {
		t.Errorf("last page should not report more")
	}

	// Out-of-range flags are clamped rather than rejected.
	rr = env.do(t, "GET", "/api/submissions?page=0&limit=1000", nil, tok, "")
	decode(t, rr, &list)
	if list.Pagination.Page != 1 || list.Pagination.Limit != 100 {
		t.Errorf("expected clamped page=1 limit=100, got %+v", list.Pagination)
	}
}

func TestListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	first := env.seedSubmission(t, "First", "first@example.com", "A long enough message body.")
	second := env.seedSubmission(t, "Second", "second@example.com", "A long enough message body.")

	rr := env.do(t, "GET", "/api/submissions", nil, tok, "")
	var list model.SubmissionList
	decode(t, rr, &list)
	if len(list.Submissions) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(list.Submissions))
	}
	if list.Submissions[0].ID != second.ID || list.Submissions[1].ID != first.ID {
		t.Errorf("expected newest first, got ids %d, %d",
			list.Submissions[0].ID, list.Submissions[1].ID)
	}
}

func TestListFilters(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	plain := env.seedSubmission(t, "Plain", "plain@example.com", "A long enough message body.")
	archived := env.seedSubmission(t, "Archived", "archived@example.com", "A long enough message body.")

	yes := true
	if _, err := env.store.UpdateSubmission(context.Background(), archived.ID,
		model.SubmissionPatch{IsArchived: &yes}); err != nil {
		t.Fatalf("archive seed row: %v", err)
	}

	var list model.SubmissionList

	rr := env.do(t, "GET", "/api/submissions?isArchived=true", nil, tok, "")
	decode(t, rr, &list)
	if len(list.Submissions) != 1 || list.Submissions[0].ID != archived.ID {
		t.Errorf("isArchived=true: expected only the archived row, got %+v", list.Submissions)
	}

	rr = env.do(t, "GET", "/api/submissions?isArchived=false", nil, tok, "")
	decode(t, rr, &list)
	if len(list.Submissions) != 1 || list.Submissions[0].ID != plain.ID {
		t.Errorf("isArchived=false: expected only the plain row, got %+v", list.Submissions)
	}

	rr = env.do(t, "GET", "/api/submissions?isRead=false", nil, tok, "")
	decode(t, rr, &list)
	if len(list.Submissions) != 2 {
		t.Errorf("isRead=false: expected both rows, got %d", len(list.Submissions))
	}
}

func TestListSearchIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	byName := env.seedSubmission(t, "Gabriela Mistral", "gm@example.com", "A long enough message body.")
	byEmail := env.seedSubmission(t, "Someone", "gabriela@example.com", "A long enough message body.")
	byMessage := env.seedSubmission(t, "Else", "else@example.com", "Please say hi to GABRIELA for me.")
	env.seedSubmission(t, "Unrelated", "other@example.com", "A long enough message body.")

	rr := env.do(t, "GET", "/api/submissions?search=gAbRiElA", nil, tok, "")
	var list model.SubmissionList
	decode(t, rr, &list)
	if len(list.Submissions) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(list.Submissions))
	}
	got := map[int64]bool{}
	for _, s := range list.Submissions {
		got[s.ID] = true
	}
	for _, want := range []*model.Submission{byName, byEmail, byMessage} {
		if !got[want.ID] {
			t.Errorf("expected id %d in search results", want.ID)
		}
	}
}

// ----------------------------------------------------------------------------
// Get
// ----------------------------------------------------------------------------

func TestGetSubmission(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")

	rr := env.do(t, "GET", fmt.Sprintf("/api/submissions/%d", sub.ID), nil, tok, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp submissionEnvelope
	decode(t, rr, &resp)
	if resp.Submission.ID != sub.ID || resp.Submission.Email != sub.Email {
		t.Errorf("unexpected submission: %+v", resp.Submission)
	}
	if resp.Submission.IsRead || resp.Submission.IsArchived || resp.Submission.ReadAt != nil {
		t.Errorf("fresh submission should be unread and unarchived: %+v", resp.Submission)
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	for _, path := range []string{"/api/submissions/99999", "/api/submissions/abc", "/api/submissions/0"} {
		rr := env.do(t, "GET", path, nil, tok, "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

// ----------------------------------------------------------------------------
// Update
// ----------------------------------------------------------------------------

func TestUpdateMarkReadStampsReadAtOnce(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")
	path := fmt.Sprintf("/api/submissions/%d", sub.ID)

	rr := env.do(t, "PATCH", path, map[string]interface{}{"isRead": true}, tok, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp submissionEnvelope
	decode(t, rr, &resp)
	if !resp.Submission.IsRead || resp.Submission.ReadAt == nil {
		t.Fatalf("expected isRead with readAt stamped: %+v", resp.Submission)
	}
	firstReadAt := *resp.Submission.ReadAt

	// A later patch must not move the stamp, even one that re-sends isRead.
	time.Sleep(5 * time.Millisecond)
	rr = env.do(t, "PATCH", path, map[string]interface{}{"isRead": true}, tok, "")
	decode(t, rr, &resp)
	if resp.Submission.ReadAt == nil || !resp.Submission.ReadAt.Equal(firstReadAt) {
		t.Errorf("readAt moved on second patch: %v vs %v", resp.Submission.ReadAt, firstReadAt)
	}

	// Marking unread keeps the historical stamp too.
	rr = env.do(t, "PATCH", path, map[string]interface{}{"isRead": false}, tok, "")
	decode(t, rr, &resp)
	if resp.Submission.IsRead {
		t.Errorf("expected isRead false after unread patch")
	}
	if resp.Submission.ReadAt == nil || !resp.Submission.ReadAt.Equal(firstReadAt) {
		t.Errorf("readAt cleared or moved by unread patch: %v", resp.Submission.ReadAt)
	}
}

func TestUpdateNotes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")
	path := fmt.Sprintf("/api/submissions/%d", sub.ID)

	rr := env.do(t, "PATCH", path, map[string]interface{}{"notes": "followed up by phone"}, tok, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp submissionEnvelope
	decode(t, rr, &resp)
	if resp.Submission.Notes == nil || *resp.Submission.Notes != "followed up by phone" {
		t.Errorf("unexpected notes: %v", resp.Submission.Notes)
	}
	if resp.Submission.IsRead {
		t.Errorf("notes patch must not mark the row read")
	}
}

func TestUpdateEmptyPatchIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")

	rr := env.do(t, "PATCH", fmt.Sprintf("/api/submissions/%d", sub.ID),
		map[string]interface{}{}, tok, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp submissionEnvelope
	decode(t, rr, &resp)
	if resp.Submission.ID != sub.ID || resp.Submission.IsRead || resp.Submission.Notes != nil {
		t.Errorf("empty patch should return the row unchanged: %+v", resp.Submission)
	}
}

func TestUpdateValidation(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))
	sub := env.seedSubmission(t, "Jo Smith", "jo@example.com", "A long enough message body.")
	path := fmt.Sprintf("/api/submissions/%d", sub.ID)

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'x'
	}
	rr := env.do(t, "PATCH", path, map[string]interface{}{"notes": string(long)}, tok, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized notes, got %d", rr.Code)
	}
	if details := fieldErrors(t, rr); !hasFieldError(details, "notes") {
		t.Errorf("expected a notes field error, got %+v", details)
	}
}

func TestUpdateNotFound(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(t, env.seedAdmin(t))

	rr := env.do(t, "PATCH", "/api/submissions/99999",
		map[string]interface{}{"isRead": true}, tok, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
