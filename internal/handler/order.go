package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sunilvk/orderflow/internal/auth"
	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/workflow"
)

type OrderHandler struct {
	ctrl   *workflow.Controller
	logger *slog.Logger
}

func NewOrderHandler(ctrl *workflow.Controller, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{ctrl: ctrl, logger: logger}
}

// History returns archived orders most-recent-first. ?limit= caps the count;
// the default is 10.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	orders, err := h.ctrl.History(actor, limit)
	if err != nil {
		h.writeWorkflowError(w, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) writeWorkflowError(w http.ResponseWriter, err error) {
	status := workflowStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("order history", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
