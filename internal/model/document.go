package model

import "time"

type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusCompleted  DocumentStatus = "COMPLETED"
	DocumentStatusFailed     DocumentStatus = "FAILED"
)

type DocumentType string

const (
	DocumentTypeInvoice           DocumentType = "INVOICE"
	DocumentTypeBankStatement     DocumentType = "BANK_STATEMENT"
	DocumentTypeProfitLoss        DocumentType = "PROFIT_LOSS"
	DocumentTypeBalanceSheet      DocumentType = "BALANCE_SHEET"
	DocumentTypeTaxDocument       DocumentType = "TAX_DOCUMENT"
	DocumentTypeFinancialContract DocumentType = "FINANCIAL_CONTRACT"
	DocumentTypeUnknown           DocumentType = "UNKNOWN"
)

// ParseDocumentType maps classifier output onto the fixed vocabulary.
// Anything unrecognized becomes UNKNOWN.
func ParseDocumentType(s string) DocumentType {
	switch DocumentType(s) {
	case DocumentTypeInvoice, DocumentTypeBankStatement, DocumentTypeProfitLoss,
		DocumentTypeBalanceSheet, DocumentTypeTaxDocument, DocumentTypeFinancialContract:
		return DocumentType(s)
	}
	return DocumentTypeUnknown
}

type Document struct {
	BaseModel
	FileName     string `gorm:"size:500;not null" json:"file_name"`
	OriginalName string `gorm:"size:500" json:"original_name"`
	StoragePath  string `gorm:"size:1000;not null" json:"storage_path"`
	Size         int64  `gorm:"not null" json:"size"`
	ContentType  string `gorm:"size:100" json:"content_type"`

	Status       DocumentStatus `gorm:"size:50;not null;default:'UPLOADED';index" json:"status"`
	DocumentType DocumentType   `gorm:"size:50;default:'UNKNOWN';index" json:"document_type"`

	ExtractedText string `gorm:"type:text" json:"-"`
	PageCount     int    `gorm:"default:0" json:"page_count"`

	ProcessingStartedAt   *time.Time `json:"processing_started_at,omitempty"`
	ProcessingCompletedAt *time.Time `json:"processing_completed_at,omitempty"`
	ErrorMessage          string     `gorm:"type:text" json:"error_message,omitempty"`
	RetryCount            int        `gorm:"default:0" json:"retry_count"`
}

func (Document) TableName() string {
	return "documents"
}
