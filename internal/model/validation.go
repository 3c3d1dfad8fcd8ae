package model

import "github.com/google/uuid"

type ValidationSeverity string

const (
	SeverityError   ValidationSeverity = "ERROR"
	SeverityWarning ValidationSeverity = "WARNING"
)

// FinancialValidation records one rule evaluation for one document,
// passing rules included.
type FinancialValidation struct {
	BaseModel
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`

	ValidationType string `gorm:"size:100;not null;index" json:"validation_type"`
	IsValid        bool   `gorm:"not null;index" json:"is_valid"`

	ExpectedValue JSONMap            `gorm:"type:jsonb" json:"expected_value,omitempty"`
	ActualValue   JSONMap            `gorm:"type:jsonb" json:"actual_value,omitempty"`
	ErrorMessage  string             `gorm:"type:text" json:"error_message,omitempty"`
	Severity      ValidationSeverity `gorm:"size:50" json:"severity"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

func (FinancialValidation) TableName() string {
	return "financial_validations"
}
