package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sunilvk/orderflow/internal/model"
	"github.com/sunilvk/orderflow/internal/store"
	ws "github.com/sunilvk/orderflow/internal/websocket"
)

type VendorHandler struct {
	vendors *store.VendorStore
	hub     *ws.Hub
	logger  *slog.Logger
}

func NewVendorHandler(vendors *store.VendorStore, hub *ws.Hub, logger *slog.Logger) *VendorHandler {
	return &VendorHandler{vendors: vendors, hub: hub, logger: logger}
}

type vendorRequest struct {
	Category   string `json:"category"`
	VendorName string `json:"vendor_name"`
	Phone      string `json:"phone"`
	VendorType string `json:"vendor_type"`
}

func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.VendorName = strings.TrimSpace(req.VendorName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Category == "" || req.VendorName == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "category, vendor_name and phone are required")
		return
	}

	vendor, err := h.vendors.Create(req.Category, req.VendorName, req.Phone, req.VendorType)
	if err != nil {
		h.logger.Error("create vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create vendor")
		return
	}

	h.hub.Broadcast(ws.NewMessage("vendor", "created", vendor.ID, nil))
	writeJSON(w, http.StatusCreated, vendor)
}

func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.List()
	if err != nil {
		h.logger.Error("list vendors", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	writeJSON(w, http.StatusOK, vendors)
}

func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vendors.GetByID(id)
	if err != nil {
		h.logger.Error("get vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}

	var req vendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.Category == "" {
		req.Category = existing.Category
	}
	if req.VendorName = strings.TrimSpace(req.VendorName); req.VendorName == "" {
		req.VendorName = existing.VendorName
	}
	if req.Phone = strings.TrimSpace(req.Phone); req.Phone == "" {
		req.Phone = existing.Phone
	}
	if req.VendorType == "" {
		req.VendorType = existing.VendorType
	}

	vendor, err := h.vendors.Update(id, req.Category, req.VendorName, req.Phone, req.VendorType)
	if err != nil {
		h.logger.Error("update vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update vendor")
		return
	}

	h.hub.Broadcast(ws.NewMessage("vendor", "updated", vendor.ID, nil))
	writeJSON(w, http.StatusOK, vendor)
}

func (h *VendorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vendors.GetByID(id)
	if err != nil {
		h.logger.Error("get vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vendor")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vendor not found")
		return
	}

	if err := h.vendors.Delete(id); err != nil {
		h.logger.Error("delete vendor", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete vendor")
		return
	}

	h.hub.Broadcast(ws.NewMessage("vendor", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}
