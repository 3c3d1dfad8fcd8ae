package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgo/finsight/internal/model"
)

type ExtractionRepository struct {
	db *gorm.DB
}

func NewExtractionRepository(db *gorm.DB) *ExtractionRepository {
	return &ExtractionRepository{db: db}
}

func (r *ExtractionRepository) Create(ctx context.Context, extraction *model.FinancialExtraction) error {
	return r.db.WithContext(ctx).Create(extraction).Error
}

// FindLatestByDocumentID returns the most recent extraction attempt.
func (r *ExtractionRepository) FindLatestByDocumentID(ctx context.Context, documentID uuid.UUID) (*model.FinancialExtraction, error) {
	var extraction model.FinancialExtraction
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		First(&extraction).Error
	if err != nil {
		return nil, err
	}
	return &extraction, nil
}
