package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgo/finsight/internal/model"
)

type RiskRepository struct {
	db *gorm.DB
}

func NewRiskRepository(db *gorm.DB) *RiskRepository {
	return &RiskRepository{db: db}
}

func (r *RiskRepository) CreateBatch(ctx context.Context, flags []model.RiskFlag) error {
	if len(flags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&flags).Error
}

func (r *RiskRepository) FindByDocumentID(ctx context.Context, documentID uuid.UUID) ([]model.RiskFlag, error) {
	var flags []model.RiskFlag
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&flags).Error
	return flags, err
}

func (r *RiskRepository) FindUnresolved(ctx context.Context, minLevel model.RiskLevel, limit, offset int) ([]model.RiskFlag, int64, error) {
	var flags []model.RiskFlag
	var total int64

	query := r.db.WithContext(ctx).Model(&model.RiskFlag{}).
		Where("is_resolved = ?", false)
	if minLevel != "" && minLevel != model.RiskLevelNone {
		levels := []model.RiskLevel{}
		for _, l := range []model.RiskLevel{model.RiskLevelLow, model.RiskLevelMedium, model.RiskLevelHigh, model.RiskLevelCritical} {
			if l.Rank() >= minLevel.Rank() {
				levels = append(levels, l)
			}
		}
		query = query.Where("risk_level IN ?", levels)
	}

	query.Count(&total)
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&flags).Error
	return flags, total, err
}

// Resolve marks a flag as reviewed. The pipeline never calls this.
func (r *RiskRepository) Resolve(ctx context.Context, id uuid.UUID, notes string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.RiskFlag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_resolved":      true,
			"resolved_at":      &now,
			"resolution_notes": notes,
		}).Error
}
