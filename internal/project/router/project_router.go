// Package router exposes the project lifecycle over HTTP.
package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/qualiflow/qualiflow/internal/audit"
	"github.com/qualiflow/qualiflow/internal/auth"
	"github.com/qualiflow/qualiflow/internal/equipment"
	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/service"
	"github.com/qualiflow/qualiflow/internal/project/stage"
	"github.com/qualiflow/qualiflow/internal/qualification"
)

type ProjectRouter struct {
	projects    *service.ProjectService
	transitions *service.TransitionService
	assignments *service.AssignmentService
	auditor     *audit.Writer
}

func NewProjectRouter(
	projects *service.ProjectService,
	transitions *service.TransitionService,
	assignments *service.AssignmentService,
	auditor *audit.Writer,
) *ProjectRouter {
	return &ProjectRouter{
		projects:    projects,
		transitions: transitions,
		assignments: assignments,
		auditor:     auditor,
	}
}

// HandleCreateProject handles POST /api/projects
func (pr *ProjectRouter) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req model.CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	project, err := pr.projects.Create(r.Context(), &req, auth.ActorID(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// HandleGetProject handles GET /api/projects/{projectID}
func (pr *ProjectRouter) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	project, err := pr.projects.GetByID(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleListProjects handles GET /api/projects
// Optional query filters: status, offset, limit
func (pr *ProjectRouter) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	var status *model.Stage
	if raw := r.URL.Query().Get("status"); raw != "" {
		st := model.Stage(raw)
		if !stage.IsValid(st) {
			http.Error(w, "invalid 'status' query parameter: "+raw, http.StatusBadRequest)
			return
		}
		status = &st
	}

	var offset, limit *int
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		offset = &v
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		limit = &v
	}

	projects, err := pr.projects.List(r.Context(), status, offset, limit)
	if err != nil {
		http.Error(w, "failed to list projects: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// HandleUpdateProject handles PUT /api/projects/{projectID}
func (pr *ProjectRouter) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	var req model.UpdateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	project, err := pr.projects.Update(r.Context(), projectID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to update project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleAdvanceProject handles POST /api/projects/{projectID}/advance
func (pr *ProjectRouter) HandleAdvanceProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	project, err := pr.transitions.Advance(r.Context(), projectID, auth.ActorID(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to advance project")
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleGetStageReport handles GET /api/projects/{projectID}/stages
func (pr *ProjectRouter) HandleGetStageReport(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	report, err := pr.projects.StageReport(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "failed to build stage report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// HandleUpsertAssignment handles PUT /api/projects/{projectID}/assignments
func (pr *ProjectRouter) HandleUpsertAssignment(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	var req model.UpsertStageAssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	assignment, err := pr.assignments.UpsertAssignment(r.Context(), projectID, req)
	if err != nil {
		writeServiceError(w, err, "failed to upsert assignment")
		return
	}

	writeJSON(w, http.StatusOK, assignment)
}

// HandleGetAssignments handles GET /api/projects/{projectID}/assignments
func (pr *ProjectRouter) HandleGetAssignments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	assignments, err := pr.assignments.GetAssignments(r.Context(), projectID)
	if err != nil {
		http.Error(w, "failed to retrieve assignments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, assignments)
}

// HandleGetAuditTrail handles GET /api/projects/{projectID}/audit
func (pr *ProjectRouter) HandleGetAuditTrail(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	entries, err := pr.auditor.ListByEntity(r.Context(), "project", projectID)
	if err != nil {
		http.Error(w, "failed to retrieve audit trail: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.PathValue(name)
	if raw == "" {
		http.Error(w, "missing "+name+" in path", http.StatusBadRequest)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid "+name+": "+err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps service sentinel errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrTestingPeriodNotFound),
		errors.Is(err, equipment.ErrEquipmentNotFound),
		errors.Is(err, qualification.ErrObjectNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnknownStage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDocumentsNotApproved),
		errors.Is(err, service.ErrConcurrentUpdate):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, fallback+": "+err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
