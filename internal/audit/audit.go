// Package audit provides an append-only audit trail for workflow mutations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is a single audit record. Entries are only ever inserted.
type Entry struct {
	ID         uuid.UUID       `gorm:"type:uuid;column:id;not null;primaryKey" json:"id"`
	Entity     string          `gorm:"type:varchar(100);column:entity;not null" json:"entity"`
	EntityID   uuid.UUID       `gorm:"type:uuid;column:entity_id;not null;index" json:"entityId"`
	Action     string          `gorm:"type:varchar(100);column:action;not null" json:"action"`
	ActorID    *uuid.UUID      `gorm:"type:uuid;column:actor_id" json:"actorId,omitempty"`
	Details    json.RawMessage `gorm:"type:jsonb;column:details" json:"details,omitempty"`
	RecordedAt time.Time       `gorm:"type:timestamptz;column:recorded_at;not null" json:"recordedAt"`
}

func (e *Entry) TableName() string {
	return "audit_entries"
}

// BeforeCreate assigns the ID and timestamp.
func (e *Entry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewRandom()
		if err != nil {
			return
		}
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	return
}

// Writer appends audit entries.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

// Record appends an entry using the writer's own connection.
func (w *Writer) Record(ctx context.Context, entry Entry) error {
	return w.RecordInTx(ctx, w.db, entry)
}

// RecordInTx appends an entry inside the caller's transaction, so the audit
// row commits or rolls back together with the mutation it describes.
func (w *Writer) RecordInTx(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if entry.Entity == "" || entry.Action == "" {
		return fmt.Errorf("audit entry requires entity and action")
	}
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListByEntity returns the audit trail for one entity, newest first.
func (w *Writer) ListByEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]Entry, error) {
	var entries []Entry
	result := w.db.WithContext(ctx).
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("recorded_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", result.Error)
	}
	return entries, nil
}
