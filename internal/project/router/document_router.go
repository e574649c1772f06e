package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/qualiflow/qualiflow/internal/auth"
	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/project/service"
)

type DocumentRouter struct {
	documents *service.DocumentService
	approvals *service.ApprovalService
}

func NewDocumentRouter(documents *service.DocumentService, approvals *service.ApprovalService) *DocumentRouter {
	return &DocumentRouter{
		documents: documents,
		approvals: approvals,
	}
}

// HandleUploadDocument handles POST /api/projects/{projectID}/documents
// Multipart form fields: file (required), documentType (required),
// qualificationObjectId (required for qualification protocols).
func (dr *DocumentRouter) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	// Max memory 32MB
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	docType := model.DocumentType(r.FormValue("documentType"))

	var objectID *uuid.UUID
	if raw := r.FormValue("qualificationObjectId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid qualificationObjectId: "+err.Error(), http.StatusBadRequest)
			return
		}
		objectID = &parsed
	}

	doc, err := dr.documents.Attach(r.Context(), projectID, docType, objectID, auth.ActorID(r.Context()),
		header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		slog.ErrorContext(r.Context(), "document upload failed", "project_id", projectID, "error", err)
		writeServiceError(w, err, "failed to upload document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// HandleListDocuments handles GET /api/projects/{projectID}/documents
func (dr *DocumentRouter) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	docs, err := dr.documents.ListByProject(r.Context(), projectID)
	if err != nil {
		http.Error(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

// HandleDownloadDocument handles GET /api/documents/{documentID}/content
func (dr *DocumentRouter) HandleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseIDParam(w, r, "documentID")
	if !ok {
		return
	}

	reader, contentType, err := dr.documents.Open(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err, "failed to open document")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, reader); err != nil {
		slog.WarnContext(r.Context(), "document download interrupted", "document_id", documentID, "error", err)
	}
}

// HandleDeleteDocument handles DELETE /api/documents/{documentID}
func (dr *DocumentRouter) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseIDParam(w, r, "documentID")
	if !ok {
		return
	}

	if err := dr.documents.Delete(r.Context(), documentID); err != nil {
		writeServiceError(w, err, "failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleApproveDocument handles POST /api/documents/{documentID}/approve
func (dr *DocumentRouter) HandleApproveDocument(w http.ResponseWriter, r *http.Request) {
	dr.handleReview(w, r, model.ApprovalStatusApproved)
}

// HandleRejectDocument handles POST /api/documents/{documentID}/reject
func (dr *DocumentRouter) HandleRejectDocument(w http.ResponseWriter, r *http.Request) {
	dr.handleReview(w, r, model.ApprovalStatusRejected)
}

func (dr *DocumentRouter) handleReview(w http.ResponseWriter, r *http.Request, status model.ApprovalStatus) {
	documentID, ok := parseIDParam(w, r, "documentID")
	if !ok {
		return
	}

	authCtx := auth.GetAuthContext(r.Context())
	if authCtx == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req model.ReviewDocumentDTO
	if r.Body != nil {
		// An empty body means a review without a comment.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	var decision *model.DocumentApproval
	var err error
	if status == model.ApprovalStatusApproved {
		decision, err = dr.approvals.Approve(r.Context(), documentID, authCtx.User.ID, string(authCtx.User.Role), req.Comment)
	} else {
		decision, err = dr.approvals.Reject(r.Context(), documentID, authCtx.User.ID, string(authCtx.User.Role), req.Comment)
	}
	if err != nil {
		writeServiceError(w, err, "failed to review document")
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

// HandleCommentDocument handles POST /api/documents/{documentID}/comments
func (dr *DocumentRouter) HandleCommentDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseIDParam(w, r, "documentID")
	if !ok {
		return
	}

	authCtx := auth.GetAuthContext(r.Context())
	if authCtx == nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req model.AddCommentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := dr.approvals.AddComment(r.Context(), documentID, authCtx.User.ID, req.Comment)
	if err != nil {
		writeServiceError(w, err, "failed to add comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleGetApprovalStatus handles GET /api/documents/{documentID}/approval
func (dr *DocumentRouter) HandleGetApprovalStatus(w http.ResponseWriter, r *http.Request) {
	documentID, ok := parseIDParam(w, r, "documentID")
	if !ok {
		return
	}

	status, err := dr.approvals.GetStatus(r.Context(), documentID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve approval status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// HandleGetNegotiationApproval handles GET /api/projects/{projectID}/negotiation-approval
// It reports whether the contract negotiation document gate is satisfied.
func (dr *DocumentRouter) HandleGetNegotiationApproval(w http.ResponseWriter, r *http.Request) {
	projectID, ok := parseIDParam(w, r, "projectID")
	if !ok {
		return
	}

	approved, err := dr.approvals.IsNegotiationApproved(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, err, "failed to check negotiation approval")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"approved": approved})
}
