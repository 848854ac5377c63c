package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sunilvk/orderflow/internal/config"
	"github.com/sunilvk/orderflow/internal/handler"
	"github.com/sunilvk/orderflow/internal/middleware"
	"github.com/sunilvk/orderflow/internal/store"
	ws "github.com/sunilvk/orderflow/internal/websocket"
	"github.com/sunilvk/orderflow/internal/workflow"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	draftH       *handler.DraftHandler
	vendorH      *handler.VendorHandler
	categoryH    *handler.CategoryHandler
	orderH       *handler.OrderHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	draftStore := store.NewDraftStore(db)
	orderStore := store.NewOrderStore(db)
	vendorStore := store.NewVendorStore(db)
	categoryStore := store.NewCategoryStore(db)
	sessionStore := store.NewSessionStore(db)

	ctrl := workflow.NewController(
		draftStore, orderStore, vendorStore, categoryStore,
		cfg.CountryCode,
		logger.With("component", "workflow"),
	)

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(sessionStore, logger.With("component", "auth")),
		draftH:       handler.NewDraftHandler(ctrl, hub, logger.With("component", "draft")),
		vendorH:      handler.NewVendorHandler(vendorStore, hub, logger.With("component", "vendor")),
		categoryH:    handler.NewCategoryHandler(categoryStore, hub, logger.With("component", "category")),
		orderH:       handler.NewOrderHandler(ctrl, logger.With("component", "order")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no session required)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireSession middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	sessionMiddleware := middleware.RequireSession(s.sessionStore)
	outerMux.Handle("/", sessionMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"ws_clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	// Draft lifecycle. Role gates for approve/edit/dispatch/send live in the
	// workflow controller; any session may view and add.
	mux.HandleFunc("GET /api/draft", s.draftH.Get)
	mux.HandleFunc("POST /api/draft/items", s.draftH.AddItem)
	mux.HandleFunc("DELETE /api/draft/items/{index}", s.draftH.RemoveItem)
	mux.HandleFunc("PUT /api/draft/items", s.draftH.EditItem)
	mux.HandleFunc("POST /api/draft/approve", s.draftH.Approve)
	mux.HandleFunc("POST /api/draft/clear", s.draftH.Clear)
	mux.HandleFunc("GET /api/draft/dispatches", s.draftH.Dispatches)
	mux.HandleFunc("POST /api/draft/send", s.draftH.Send)
	mux.HandleFunc("GET /api/summary", s.draftH.Summary)

	// Order history (owner)
	mux.Handle("GET /api/orders", middleware.RequireOwner(http.HandlerFunc(s.orderH.History)))

	// Vendor management (owner)
	mux.Handle("GET /api/vendors", middleware.RequireOwner(http.HandlerFunc(s.vendorH.List)))
	mux.Handle("POST /api/vendors", middleware.RequireOwner(http.HandlerFunc(s.vendorH.Create)))
	mux.Handle("PUT /api/vendors/{id}", middleware.RequireOwner(http.HandlerFunc(s.vendorH.Update)))
	mux.Handle("DELETE /api/vendors/{id}", middleware.RequireOwner(http.HandlerFunc(s.vendorH.Delete)))

	// Category table (reads for all, mutations owner)
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.Handle("POST /api/categories", middleware.RequireOwner(http.HandlerFunc(s.categoryH.Create)))
	mux.Handle("POST /api/categories/{name}/keywords", middleware.RequireOwner(http.HandlerFunc(s.categoryH.AddKeyword)))
	mux.Handle("POST /api/categories/keywords/move", middleware.RequireOwner(http.HandlerFunc(s.categoryH.MoveKeyword)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
