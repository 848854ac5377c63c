package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/store"
	ws "github.com/sunilvk/orderflow/internal/websocket"
)

type CategoryHandler struct {
	categories *store.CategoryStore
	hub        *ws.Hub
	logger     *slog.Logger
}

func NewCategoryHandler(categories *store.CategoryStore, hub *ws.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, hub: hub, logger: logger}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		h.logger.Error("list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

type addCategoryRequest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.categories.AddCategory(req.Name, req.Keywords)
	if errors.Is(err, store.ErrCategoryExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("add category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add category")
		return
	}

	h.hub.Broadcast(ws.NewMessage("category", "created", category.ID, nil))
	writeJSON(w, http.StatusCreated, category)
}

type addKeywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *CategoryHandler) AddKeyword(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req addKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Keyword) == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	if err := h.categories.AddKeyword(name, req.Keyword); err != nil {
		h.logger.Error("add keyword", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add keyword")
		return
	}

	h.hub.Broadcast(ws.NewMessage("category", "updated", 0, map[string]any{"name": name}))
	w.WriteHeader(http.StatusNoContent)
}

type moveKeywordRequest struct {
	Keyword string `json:"keyword"`
	From    string `json:"from"`
	To      string `json:"to"`
}

func (h *CategoryHandler) MoveKeyword(w http.ResponseWriter, r *http.Request) {
	var req moveKeywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Keyword == "" || req.From == "" || req.To == "" {
		writeError(w, http.StatusBadRequest, "keyword, from and to are required")
		return
	}

	err := h.categories.MoveKeyword(req.Keyword, req.From, req.To)
	if errors.Is(err, store.ErrCategoryNotFound) || errors.Is(err, store.ErrKeywordNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("move keyword", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to move keyword")
		return
	}

	h.hub.Broadcast(ws.NewMessage("category", "updated", 0, map[string]any{"keyword": req.Keyword}))
	w.WriteHeader(http.StatusNoContent)
}
