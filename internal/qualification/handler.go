package qualification

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/qualiflow/qualiflow/internal/uploads"
)

// Handler exposes qualification object CRUD over HTTP.
type Handler struct {
	service *Service
	store   *uploads.DocumentStore
}

func NewHandler(service *Service, store *uploads.DocumentStore) *Handler {
	return &Handler{service: service, store: store}
}

// HandleCreate handles POST /api/qualification-objects
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateObjectDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	obj, err := h.service.Create(r.Context(), &req)
	if err != nil {
		http.Error(w, "failed to create qualification object: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, obj)
}

// HandleGet handles GET /api/qualification-objects/{objectID}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	obj, err := h.service.GetByID(r.Context(), objectID)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve qualification object: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

// HandleList handles GET /api/qualification-objects?contractorId={id}
// Optional query filters: offset, limit
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	contractorIDStr := r.URL.Query().Get("contractorId")
	if contractorIDStr == "" {
		http.Error(w, "contractorId query parameter is required", http.StatusBadRequest)
		return
	}
	contractorID, err := uuid.Parse(contractorIDStr)
	if err != nil {
		http.Error(w, "invalid contractorId: "+err.Error(), http.StatusBadRequest)
		return
	}

	offset, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}

	objects, err := h.service.ListByContractor(r.Context(), contractorID, offset, limit)
	if err != nil {
		http.Error(w, "failed to list qualification objects: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, objects)
}

// HandleUpdate handles PUT /api/qualification-objects/{objectID}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	var req UpdateObjectDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	obj, err := h.service.Update(r.Context(), objectID, &req)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to update qualification object: "+err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

// HandleDelete handles DELETE /api/qualification-objects/{objectID}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), objectID); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete qualification object: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadPlan handles PUT /api/qualification-objects/{objectID}/plan
func (h *Handler) HandleUploadPlan(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "'file' form field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	stored, err := h.store.Put(r.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, "failed to store plan file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	obj, err := h.service.SetPlanFile(r.Context(), objectID, &stored.Key, &header.Filename)
	if err != nil {
		_ = h.store.Remove(r.Context(), stored.Key)
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to attach plan file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, obj)
}

// HandleDownloadPlan handles GET /api/qualification-objects/{objectID}/plan
func (h *Handler) HandleDownloadPlan(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	obj, err := h.service.GetByID(r.Context(), objectID)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve qualification object: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if obj.PlanFileKey == nil {
		http.Error(w, "no plan file attached", http.StatusNotFound)
		return
	}

	body, mimeType, err := h.store.Fetch(r.Context(), *obj.PlanFileKey)
	if err != nil {
		http.Error(w, "failed to read plan file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, body); err != nil {
		return
	}
}

// HandleDeletePlan handles DELETE /api/qualification-objects/{objectID}/plan
func (h *Handler) HandleDeletePlan(w http.ResponseWriter, r *http.Request) {
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	obj, err := h.service.GetByID(r.Context(), objectID)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve qualification object: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if obj.PlanFileKey != nil {
		if err := h.store.Remove(r.Context(), *obj.PlanFileKey); err != nil {
			http.Error(w, "failed to remove plan file: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}

	if _, err := h.service.SetPlanFile(r.Context(), objectID, nil, nil); err != nil {
		http.Error(w, "failed to detach plan file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		http.Error(w, name+" is required", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid "+name+": "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(w http.ResponseWriter, r *http.Request) (*int, *int, bool) {
	var offset, limit *int
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return nil, nil, false
		}
		offset = &v
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return nil, nil, false
		}
		limit = &v
	}
	return offset, limit, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
