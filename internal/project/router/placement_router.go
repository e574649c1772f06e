package router

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/qualiflow/qualiflow/internal/auth"
	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/service"
)

// PlacementRouter exposes equipment placement and testing period planning
// over HTTP.
type PlacementRouter struct {
	placements *service.PlacementService
	periods    *service.TestingPeriodService
}

func NewPlacementRouter(placements *service.PlacementService, periods *service.TestingPeriodService) *PlacementRouter {
	return &PlacementRouter{placements: placements, periods: periods}
}

// HandleSetPlacement handles PUT /api/projects/{projectID}/objects/{objectID}/equipment
func (plr *PlacementRouter) HandleSetPlacement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	var items []model.EquipmentPlacementItemDTO
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := plr.placements.SetPlacement(r.Context(), projectID, objectID, items, auth.ActorID(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to save equipment placement")
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// HandleGetPlacement handles GET /api/projects/{projectID}/objects/{objectID}/equipment
func (plr *PlacementRouter) HandleGetPlacement(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}
	objectID, ok := parseIDParam(w, r, "objectID")
	if !ok {
		return
	}

	assignments, err := plr.placements.GetPlacement(r.Context(), projectID, objectID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve equipment placement")
		return
	}

	writeJSON(w, http.StatusOK, assignments)
}

// HandleListProjectEquipment handles GET /api/projects/{projectID}/equipment
func (plr *PlacementRouter) HandleListProjectEquipment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	assignments, err := plr.placements.ListProjectAssignments(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "failed to list equipment assignments")
		return
	}

	writeJSON(w, http.StatusOK, assignments)
}

// HandleCompleteEquipmentAssignment handles POST /api/equipment-assignments/{assignmentID}/complete
func (plr *PlacementRouter) HandleCompleteEquipmentAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := parseIDParam(w, r, "assignmentID")
	if !ok {
		return
	}

	assignment, err := plr.placements.CompleteAssignment(r.Context(), assignmentID)
	if err != nil {
		writeServiceError(w, err, "failed to complete equipment assignment")
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

// HandleCreateTestingPeriod handles POST /api/testing-periods
func (plr *PlacementRouter) HandleCreateTestingPeriod(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTestingPeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	period, err := plr.periods.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create testing period")
		return
	}

	writeJSON(w, http.StatusCreated, period)
}

// HandleListTestingPeriods handles GET /api/testing-periods
// Optional query filters: projectId, qualificationObjectId
func (plr *PlacementRouter) HandleListTestingPeriods(w http.ResponseWriter, r *http.Request) {
	var filter service.TestingPeriodFilter
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid projectId: "+err.Error(), http.StatusBadRequest)
			return
		}
		filter.ProjectID = &id
	}
	if raw := r.URL.Query().Get("qualificationObjectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid qualificationObjectId: "+err.Error(), http.StatusBadRequest)
			return
		}
		filter.QualificationObjectID = &id
	}

	periods, err := plr.periods.List(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list testing periods: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, periods)
}

// HandleGetTestingPeriod handles GET /api/testing-periods/{periodID}
func (plr *PlacementRouter) HandleGetTestingPeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	period, err := plr.periods.GetByID(r.Context(), periodID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve testing period")
		return
	}

	writeJSON(w, http.StatusOK, period)
}

// HandleUpdateTestingPeriod handles PUT /api/testing-periods/{periodID}
func (plr *PlacementRouter) HandleUpdateTestingPeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	var req model.UpdateTestingPeriodDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	period, err := plr.periods.Update(r.Context(), periodID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update testing period")
		return
	}

	writeJSON(w, http.StatusOK, period)
}

// HandleDeleteTestingPeriod handles DELETE /api/testing-periods/{periodID}
func (plr *PlacementRouter) HandleDeleteTestingPeriod(w http.ResponseWriter, r *http.Request) {
	periodID, ok := parseIDParam(w, r, "periodID")
	if !ok {
		return
	}

	if err := plr.periods.Delete(r.Context(), periodID); err != nil {
		writeServiceError(w, err, "failed to delete testing period")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
