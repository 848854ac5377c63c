package store

import (
	"testing"

	"github.com/sunilvk/orderflow/internal/database"
	"github.com/sunilvk/orderflow/internal/model"
)

func setupSessionTestDB(t *testing.T) *SessionStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, err := ss.Create("Asha", model.RoleStaff)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if sess.Name != "Asha" || sess.Role != model.RoleStaff {
		t.Errorf("unexpected session: %+v", sess)
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Error("expiry should be after creation")
	}
}

func TestSessionGetByToken(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Create("Ravi", model.RoleOwner)

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Fatalf("got %+v, want session %d", got, sess.ID)
	}
	if got.Role != model.RoleOwner {
		t.Errorf("role = %q, want %q", got.Role, model.RoleOwner)
	}

	missing, err := ss.GetByToken("not-a-token")
	if err != nil {
		t.Fatalf("get missing token: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown token, got %+v", missing)
	}
}

func TestSessionDelete(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Create("Asha", model.RoleStaff)
	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get deleted session: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}
}

func TestDeleteExpired(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, _ := ss.Create("Asha", model.RoleStaff)

	// Nothing expired yet
	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 0 {
		t.Errorf("deleted %d fresh sessions, want 0", count)
	}

	// Force expiry, then sweep
	if _, err := ss.db.Exec(`UPDATE sessions SET expires_at = datetime('now', '-1 day') WHERE id = ?`, sess.ID); err != nil {
		t.Fatalf("expire session: %v", err)
	}
	count, err = ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 1 {
		t.Errorf("deleted %d sessions, want 1", count)
	}
}
