package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgo/finsight/internal/model"
)

type ValidationRepository struct {
	db *gorm.DB
}

func NewValidationRepository(db *gorm.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

func (r *ValidationRepository) CreateBatch(ctx context.Context, validations []model.FinancialValidation) error {
	if len(validations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&validations).Error
}

func (r *ValidationRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]model.FinancialValidation, error) {
	var validations []model.FinancialValidation
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&validations).Error
	return validations, err
}
