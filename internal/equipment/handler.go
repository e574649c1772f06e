package equipment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler exposes the equipment catalog over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /api/equipment
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var item Equipment
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), &item)
	if err != nil {
		http.Error(w, "failed to create equipment: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /api/equipment/{equipmentID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	equipmentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetByID(r.Context(), equipmentID)
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// HandleList handles GET /api/equipment
// Optional query filters: name, offset, limit
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter Filter

	if name := r.URL.Query().Get("name"); name != "" {
		filter.NameStartsWith = &name
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Offset = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		filter.Limit = &limit
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleUpdate handles PUT /api/equipment/{equipmentID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	equipmentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateEquipmentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.service.Update(r.Context(), equipmentID, req)
	if err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update equipment: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// HandleDelete handles DELETE /api/equipment/{equipmentID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	equipmentID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), equipmentID); err != nil {
		if errors.Is(err, ErrEquipmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete equipment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("equipmentID")
	if raw == "" {
		http.Error(w, "equipment ID is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid equipment ID: "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
