package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunilvk/orderflow/internal/auth"
	"github.com/sunilvk/orderflow/internal/middleware"
	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/store"
)

type AuthHandler struct {
	sessions *store.SessionStore
	logger   *slog.Logger
}

func NewAuthHandler(sessions *store.SessionStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, logger: logger}
}

type loginRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Login creates a session from a self-asserted name and role. There is no
// credential check; this identifies, it does not authenticate.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Role != model.RoleStaff && req.Role != model.RoleOwner {
		writeError(w, http.StatusBadRequest, "role must be Staff or Owner")
		return
	}

	sess, err := h.sessions.Create(req.Name, req.Role)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("login", "name", sess.Name, "role", sess.Role)
	writeJSON(w, http.StatusOK, map[string]string{"name": sess.Name, "role": sess.Role})
}

// Logout deletes the current session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if actor, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessions.Delete(actor.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
