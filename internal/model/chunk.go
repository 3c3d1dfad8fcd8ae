package model

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	BaseModel
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_chunk_document" json:"document_id"`

	ChunkText  string `gorm:"type:text;not null" json:"chunk_text"`
	ChunkIndex int    `gorm:"not null;index:idx_chunk_document" json:"chunk_index"`
	PageNumber *int   `json:"page_number,omitempty"`

	Embedding pgvector.Vector `gorm:"type:vector(768)" json:"-"` // dimension fixed by the embedding provider
	Metadata  JSONMap         `gorm:"type:jsonb" json:"metadata,omitempty"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
}

func (DocumentChunk) TableName() string {
	return "document_chunks"
}
