package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/tgo/finsight/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// ReplaceForDocument swaps a document's chunk set in one transaction.
// Readers never observe a document with only part of its chunks.
func (r *ChunkRepository) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, chunks []model.DocumentChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("document_id = ?", documentID).Delete(&model.DocumentChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.Create(&chunks).Error
	})
}

func (r *ChunkRepository) CountByDocumentID(ctx context.Context, documentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DocumentChunk{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

// ChunkMatch is one similarity-search hit.
type ChunkMatch struct {
	model.DocumentChunk
	Distance     float64            `gorm:"column:distance"`
	FileName     string             `gorm:"column:file_name"`
	DocumentType model.DocumentType `gorm:"column:document_type"`
}

// SearchByEmbedding ranks chunks by cosine distance to the query vector.
// Ties on distance resolve to the lower chunk index.
func (r *ChunkRepository) SearchByEmbedding(ctx context.Context, embedding pgvector.Vector, documentType model.DocumentType, topK int) ([]ChunkMatch, error) {
	var matches []ChunkMatch

	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, document_chunks.embedding <=> ? AS distance, documents.file_name, documents.document_type", embedding).
		Joins("JOIN documents ON documents.id = document_chunks.document_id AND documents.deleted_at IS NULL").
		Where("document_chunks.deleted_at IS NULL").
		Where("document_chunks.embedding IS NOT NULL").
		Order("distance ASC, document_chunks.chunk_index ASC").
		Limit(topK)

	if documentType != "" {
		query = query.Where("documents.document_type = ?", documentType)
	}

	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}
