package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/sunilvk/orderflow/internal/auth"
	"github.com/sunilvk/orderflow/internal/store"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "orderflow_session"

// RequireSession validates the session cookie and attaches the Actor to the
// request context. This is a JSON API; failures get 401 rather than a
// redirect.
func RequireSession(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessions.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			actor := auth.Actor{
				Name:      sess.Name,
				Role:      sess.Role,
				SessionID: sess.ID,
			}
			ctx := auth.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOwner checks that the authenticated actor holds the Owner role.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsOwner(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "owner role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
