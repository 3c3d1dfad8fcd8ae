package model

import "github.com/google/uuid"

// AuditLog is an append-only trail of pipeline and reviewer actions.
// Entries are never updated or deleted; documents are soft-deleted,
// so a logged reference stays resolvable.
type AuditLog struct {
	BaseModel
	DocumentID *uuid.UUID `gorm:"type:uuid;index" json:"document_id,omitempty"`

	Action       string     `gorm:"size:100;not null;index" json:"action"`
	ResourceType string     `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   *uuid.UUID `gorm:"type:uuid" json:"resource_id,omitempty"`

	Description string  `gorm:"type:text" json:"description,omitempty"`
	Changes     JSONMap `gorm:"type:jsonb" json:"changes,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
