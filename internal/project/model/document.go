package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies the documents tracked during contract negotiation
// and testing. Qualification protocols are attached per qualification object.
type DocumentType string

const (
	DocumentTypeCommercialOffer       DocumentType = "commercial_offer"
	DocumentTypeContract              DocumentType = "contract"
	DocumentTypeQualificationProtocol DocumentType = "qualification_protocol"
	DocumentTypeLayoutScheme          DocumentType = "layout_scheme"
	DocumentTypeTestData              DocumentType = "test_data"
)

// KnownDocumentTypes lists every accepted document type.
var KnownDocumentTypes = []DocumentType{
	DocumentTypeCommercialOffer,
	DocumentTypeContract,
	DocumentTypeQualificationProtocol,
	DocumentTypeLayoutScheme,
	DocumentTypeTestData,
}

// IsValidDocumentType reports whether t is one of the known document types.
func IsValidDocumentType(t DocumentType) bool {
	for _, known := range KnownDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ProjectDocument is the metadata row for a file attached to a project. The
// binary itself lives in the document store (local disk or S3) under FileKey.
type ProjectDocument struct {
	BaseModel
	ProjectID             uuid.UUID    `gorm:"type:uuid;column:project_id;not null;index" json:"projectId"`
	QualificationObjectID *uuid.UUID   `gorm:"type:uuid;column:qualification_object_id" json:"qualificationObjectId,omitempty"`
	DocumentType          DocumentType `gorm:"type:varchar(50);column:document_type;not null" json:"documentType"`
	FileName              string       `gorm:"type:varchar(255);column:file_name;not null" json:"fileName"`
	FileKey               string       `gorm:"type:varchar(255);column:file_key;not null" json:"fileKey"`
	FileSize              int64        `gorm:"column:file_size;not null" json:"fileSize"`
	MimeType              string       `gorm:"type:varchar(255);column:mime_type;not null" json:"mimeType"`
	UploadedBy            *uuid.UUID   `gorm:"type:uuid;column:uploaded_by" json:"uploadedBy,omitempty"`
}

func (d *ProjectDocument) TableName() string {
	return "project_documents"
}

// ApprovalStatus is the review status of a single document.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// DocumentApproval is an append-only review decision for a document. The
// latest row per document is its current status; earlier rows are history.
type DocumentApproval struct {
	BaseModel
	DocumentID uuid.UUID      `gorm:"type:uuid;column:document_id;not null;index" json:"documentId"`
	Status     ApprovalStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	UserID     uuid.UUID      `gorm:"type:uuid;column:user_id;not null" json:"userId"`
	UserRole   string         `gorm:"type:varchar(50);column:user_role" json:"userRole"`
	Comment    *string        `gorm:"type:text;column:comment" json:"comment,omitempty"`
}

func (a *DocumentApproval) TableName() string {
	return "document_approvals"
}

// DocumentComment is a free-text remark left on a document during review.
type DocumentComment struct {
	BaseModel
	DocumentID uuid.UUID `gorm:"type:uuid;column:document_id;not null;index" json:"documentId"`
	UserID     uuid.UUID `gorm:"type:uuid;column:user_id;not null" json:"userId"`
	Comment    string    `gorm:"type:text;column:comment;not null" json:"comment"`
}

func (c *DocumentComment) TableName() string {
	return "document_comments"
}

// DocumentApprovalStatusDTO reports a document's current review state along
// with its history and comments.
type DocumentApprovalStatusDTO struct {
	DocumentID      uuid.UUID          `json:"documentId"`
	Status          ApprovalStatus     `json:"status"`
	LastDecision    *DocumentApproval  `json:"lastDecision,omitempty"`
	ApprovalHistory []DocumentApproval `json:"approvalHistory"`
	Comments        []DocumentComment  `json:"comments"`
}

// ReviewDocumentDTO is the request body for approving or rejecting a document.
type ReviewDocumentDTO struct {
	Comment *string `json:"comment,omitempty"`
}

// AddCommentDTO is the request body for commenting on a document.
type AddCommentDTO struct {
	Comment string `json:"comment"`
}

// ApprovalRecord captures who approved a document and when, for the
// in-memory negotiation state.
type ApprovalRecord struct {
	ApprovedAt time.Time `json:"approvedAt"`
	ApprovedBy uuid.UUID `json:"approvedBy"`
	Role       string    `json:"role"`
}
