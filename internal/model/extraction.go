package model

import (
	"time"

	"github.com/google/uuid"
)

// FinancialExtraction is one structured-extraction result per processing
// attempt. It is never updated in place; a retry creates a new row.
type FinancialExtraction struct {
	BaseModel
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`

	ExtractedData   JSONMap `gorm:"type:jsonb;not null" json:"extracted_data"`
	ConfidenceScore float64 `json:"confidence_score"`

	// Promoted scalar fields for querying
	InvoiceNumber string     `gorm:"size:100;index" json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	VendorName    string     `gorm:"size:255;index" json:"vendor_name,omitempty"`
	CustomerName  string     `gorm:"size:255" json:"customer_name,omitempty"`
	Subtotal      *float64   `json:"subtotal,omitempty"`
	TaxAmount     *float64   `json:"tax_amount,omitempty"`
	TotalAmount   *float64   `json:"total_amount,omitempty"`
	Currency      string     `gorm:"size:10;default:'USD'" json:"currency"`

	ExtractionMethod string `gorm:"size:50" json:"extraction_method"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

func (FinancialExtraction) TableName() string {
	return "financial_extractions"
}
