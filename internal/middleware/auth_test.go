package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sunilvk/orderflow/internal/auth"
	"github.com/sunilvk/orderflow/internal/database"
	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/store"
)

func setupSessionMiddlewareDB(t *testing.T) *store.SessionStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSessionStore(db)
}

func TestRequireSessionNoCookie(t *testing.T) {
	ss := setupSessionMiddlewareDB(t)

	handler := RequireSession(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/draft", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSessionInvalidToken(t *testing.T) {
	ss := setupSessionMiddlewareDB(t)

	handler := RequireSession(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/draft", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "invalid-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireSessionValidToken(t *testing.T) {
	ss := setupSessionMiddlewareDB(t)

	sess, err := ss.Create("Asha", model.RoleStaff)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var got auth.Actor
	handler := RequireSession(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := auth.FromContext(r.Context())
		if !ok {
			t.Fatal("expected actor in context")
		}
		got = actor
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/draft", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.Token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.Name != "Asha" {
		t.Errorf("actor name = %q, want %q", got.Name, "Asha")
	}
	if got.Role != model.RoleStaff {
		t.Errorf("actor role = %q, want %q", got.Role, model.RoleStaff)
	}
	if got.SessionID != sess.ID {
		t.Errorf("actor session id = %d, want %d", got.SessionID, sess.ID)
	}
}

func TestRequireOwnerForbidsStaff(t *testing.T) {
	handler := RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/vendors", nil)
	req = req.WithContext(auth.WithActor(req.Context(), auth.Actor{Name: "Asha", Role: model.RoleStaff}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireOwnerAllowsOwner(t *testing.T) {
	handler := RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/vendors", nil)
	req = req.WithContext(auth.WithActor(req.Context(), auth.Actor{Name: "Ravi", Role: model.RoleOwner}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
