package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qualiflow/qualiflow/internal/project/model"
	"github.com/qualiflow/qualiflow/internal/uploads"
)

// negotiationGateTypes are the document types whose approval gates the
// contract negotiation stage. Layout schemes and test data belong to later
// stages and never block negotiation.
var negotiationGateTypes = []model.DocumentType{
	model.DocumentTypeCommercialOffer,
	model.DocumentTypeContract,
	model.DocumentTypeQualificationProtocol,
}

// DocumentService manages project document metadata and the underlying
// binaries in the document store.
type DocumentService struct {
	db    *gorm.DB
	store *uploads.DocumentStore
}

func NewDocumentService(db *gorm.DB, store *uploads.DocumentStore) *DocumentService {
	return &DocumentService{db: db, store: store}
}

// Attach stores the file content and creates the metadata row for it.
func (s *DocumentService) Attach(ctx context.Context, projectID uuid.UUID, docType model.DocumentType, objectID *uuid.UUID, uploadedBy *uuid.UUID, filename string, content io.Reader, size int64, mimeType string) (*model.ProjectDocument, error) {
	if !model.IsValidDocumentType(docType) {
		return nil, fmt.Errorf("invalid document type: %s", docType)
	}
	if docType == model.DocumentTypeQualificationProtocol && objectID == nil {
		return nil, fmt.Errorf("qualification protocol requires a qualification object")
	}

	var project model.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil, fmt.Errorf("failed to query project: %w", err)
	}

	stored, err := s.store.Put(ctx, filename, content, size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := model.ProjectDocument{
		ProjectID:             projectID,
		QualificationObjectID: objectID,
		DocumentType:          docType,
		FileName:              filename,
		FileKey:               stored.Key,
		FileSize:              size,
		MimeType:              stored.MimeType,
		UploadedBy:            uploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		// The metadata row failed; do not leave the blob orphaned.
		if delErr := s.store.Remove(ctx, stored.Key); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up stored document", "key", stored.Key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create document record: %w", err)
	}

	slog.InfoContext(ctx, "document attached",
		"project_id", projectID,
		"document_id", doc.ID,
		"type", docType,
	)
	return &doc, nil
}

// Open returns the document's content stream and MIME type.
func (s *DocumentService) Open(ctx context.Context, documentID uuid.UUID) (io.ReadCloser, string, error) {
	doc, err := s.GetByID(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	return s.store.Fetch(ctx, doc.FileKey)
}

// GetByID retrieves a document's metadata row.
func (s *DocumentService) GetByID(ctx context.Context, documentID uuid.UUID) (*model.ProjectDocument, error) {
	if documentID == uuid.Nil {
		return nil, fmt.Errorf("document ID cannot be nil")
	}

	var doc model.ProjectDocument
	result := s.db.WithContext(ctx).First(&doc, "id = ?", documentID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
		}
		return nil, fmt.Errorf("failed to retrieve document: %w", result.Error)
	}
	return &doc, nil
}

// ListByProject retrieves all document metadata rows for a project.
func (s *DocumentService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]model.ProjectDocument, error) {
	var docs []model.ProjectDocument
	result := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&docs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list documents: %w", result.Error)
	}
	return docs, nil
}

// Delete removes the metadata row, its approval history, and the stored blob.
func (s *DocumentService) Delete(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&model.DocumentApproval{}).Error; err != nil {
			return fmt.Errorf("failed to delete approval history: %w", err)
		}
		if err := tx.Where("document_id = ?", documentID).Delete(&model.DocumentComment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.Delete(&model.ProjectDocument{}, "id = ?", documentID).Error; err != nil {
			return fmt.Errorf("failed to delete document record: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.store.Remove(ctx, doc.FileKey); err != nil {
		// The row is gone; losing the blob cleanup is logged, not fatal.
		slog.WarnContext(ctx, "failed to remove stored document", "key", doc.FileKey, "error", err)
	}
	return nil
}

// gateDocumentIDsInTx returns the IDs of all documents that participate in
// the negotiation approval gate for a project.
func gateDocumentIDsInTx(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := tx.WithContext(ctx).
		Model(&model.ProjectDocument{}).
		Where("project_id = ? AND document_type IN ?", projectID, negotiationGateTypes).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query gate documents: %w", result.Error)
	}
	return ids, nil
}
