package model

import (
	"time"

	"github.com/google/uuid"
)

type RiskLevel string

const (
	RiskLevelNone     RiskLevel = "NONE"
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Rank orders risk levels from NONE (0) to CRITICAL (4).
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	case RiskLevelCritical:
		return 4
	}
	return 0
}

type RiskFlag struct {
	BaseModel
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`

	RiskType  string    `gorm:"size:100;not null;index" json:"risk_type"`
	RiskLevel RiskLevel `gorm:"size:50;not null;default:'LOW';index" json:"risk_level"`

	Description   string  `gorm:"type:text;not null" json:"description"`
	AIExplanation string  `gorm:"type:text" json:"ai_explanation,omitempty"`
	Evidence      JSONMap `gorm:"type:jsonb" json:"evidence,omitempty"`

	// Resolution is owned by human reviewers, not the pipeline.
	IsResolved      bool       `gorm:"default:false;index" json:"is_resolved"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes string     `gorm:"type:text" json:"resolution_notes,omitempty"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

func (RiskFlag) TableName() string {
	return "risk_flags"
}
