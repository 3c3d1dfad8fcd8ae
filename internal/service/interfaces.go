package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/repository"
)

// Collaborator seams. The concrete implementations live in internal/ai
// and internal/extract; tests substitute mocks.

type TextExtractor interface {
	Extract(ctx context.Context, filePath, mimeType string) (text string, pageCount int, err error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (model.DocumentType, error)
}

type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, text string, docType model.DocumentType) (model.JSONMap, float64, error)
}

type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error)
	EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error)
}

// Persistence seams, satisfied by the GORM repositories.

type DocumentStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
}

type ExtractionStore interface {
	Create(ctx context.Context, extraction *model.FinancialExtraction) error
}

type ValidationStore interface {
	CreateBatch(ctx context.Context, validations []model.FinancialValidation) error
}

type RiskStore interface {
	CreateBatch(ctx context.Context, flags []model.RiskFlag) error
}

type ChunkStore interface {
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, chunks []model.DocumentChunk) error
}

type SearchStore interface {
	SearchByEmbedding(ctx context.Context, embedding pgvector.Vector, documentType model.DocumentType, topK int) ([]repository.ChunkMatch, error)
}

type AuditStore interface {
	Create(ctx context.Context, entry *model.AuditLog) error
}
