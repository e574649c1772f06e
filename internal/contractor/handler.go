package contractor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler exposes contractor CRUD over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate handles POST /api/contractors
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateContractorDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	contractor, err := h.service.Create(r.Context(), &req)
	if err != nil {
		http.Error(w, "failed to create contractor: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, contractor)
}

// HandleGet handles GET /api/contractors/{contractorID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	contractor, err := h.service.GetByID(r.Context(), contractorID)
	if err != nil {
		if errors.Is(err, ErrContractorNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve contractor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, contractor)
}

// HandleList handles GET /api/contractors
// Optional query filters: name, offset, limit
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	var filter Filter

	if name := r.URL.Query().Get("name"); name != "" {
		filter.NameContains = &name
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

	contractors, err := h.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list contractors: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, contractors)
}

// HandleUpdate handles PUT /api/contractors/{contractorID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateContractorDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	contractor, err := h.service.Update(r.Context(), contractorID, &req)
	if err != nil {
		if errors.Is(err, ErrContractorNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update contractor: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, contractor)
}

// HandleDelete handles DELETE /api/contractors/{contractorID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), contractorID); err != nil {
		if errors.Is(err, ErrContractorNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete contractor: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.PathValue("contractorID")
	if raw == "" {
		http.Error(w, "contractor ID is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid contractor ID: "+err.Error(), http.StatusBadRequest)
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
