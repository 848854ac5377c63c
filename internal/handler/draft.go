package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sunilvk/orderflow/internal/auth"
	ws "github.com/sunilvk/orderflow/internal/websocket"
	"github.com/sunilvk/orderflow/internal/workflow"
)

// DraftHandler exposes the draft lifecycle over HTTP. Role gates live in the
// workflow controller; the handler only translates errors to status codes
// and broadcasts changes to connected clients.
type DraftHandler struct {
	ctrl   *workflow.Controller
	hub    *ws.Hub
	logger *slog.Logger
}

func NewDraftHandler(ctrl *workflow.Controller, hub *ws.Hub, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{ctrl: ctrl, hub: hub, logger: logger}
}

func workflowStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrEmptyName), errors.Is(err, workflow.ErrEmptyDraft),
		errors.Is(err, workflow.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrDraftNotEditable), errors.Is(err, workflow.ErrNotApproved):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *DraftHandler) writeWorkflowError(w http.ResponseWriter, op string, err error) {
	status := workflowStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op, "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// Get returns the current draft.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.ctrl.Draft()
	if err != nil {
		h.writeWorkflowError(w, "get draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

type addItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := h.ctrl.AddItem(actor, req.Name, req.Quantity)
	if err != nil {
		h.writeWorkflowError(w, "add item", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("draft_item", "created", item.ID, map[string]any{"category": item.Category}))
	writeJSON(w, http.StatusCreated, item)
}

func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}

	removed, err := h.ctrl.RemoveItem(actor, index)
	if err != nil {
		h.writeWorkflowError(w, "remove item", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("draft_item", "deleted", removed.ID, nil))
	writeJSON(w, http.StatusOK, removed)
}

type editItemRequest struct {
	Name        string `json:"name"`
	OldCategory string `json:"old_category"`
	Quantity    string `json:"quantity"`
	NewCategory string `json:"new_category"`
}

// EditItem updates quantity/category on all items matching name plus current
// category. Owner only.
func (h *DraftHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	var req editItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	count, err := h.ctrl.EditItem(actor, req.Name, req.OldCategory, req.Quantity, req.NewCategory)
	if err != nil {
		h.writeWorkflowError(w, "edit item", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("draft", "updated", 0, nil))
	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}

func (h *DraftHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	draft, err := h.ctrl.Approve(actor)
	if err != nil {
		h.writeWorkflowError(w, "approve draft", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("draft", "approved", 0, nil))
	writeJSON(w, http.StatusOK, draft)
}

func (h *DraftHandler) Clear(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	if err := h.ctrl.Clear(actor); err != nil {
		h.writeWorkflowError(w, "clear draft", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("draft", "cleared", 0, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Dispatches returns the per-category send preview for an approved draft.
func (h *DraftHandler) Dispatches(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	plan, err := h.ctrl.Dispatches(actor)
	if err != nil {
		h.writeWorkflowError(w, "dispatches", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Send archives the draft as a Sent order and resets it.
func (h *DraftHandler) Send(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	order, err := h.ctrl.MarkSent(actor)
	if err != nil {
		h.writeWorkflowError(w, "mark sent", err)
		return
	}

	h.hub.Broadcast(ws.NewMessage("order", "created", order.ID, nil))
	writeJSON(w, http.StatusCreated, order)
}

// Summary returns dashboard counts.
func (h *DraftHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ctrl.Summarize()
	if err != nil {
		h.writeWorkflowError(w, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
