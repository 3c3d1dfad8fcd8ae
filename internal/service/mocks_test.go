package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/repository"
	"github.com/tgo/finsight/internal/risk"
)

type mockDocumentStore struct {
	doc        *model.Document
	findErr    error
	updateErr  error
	updateLog  []model.DocumentStatus
	updateFail int // fail the Nth update (1-based), 0 means never
}

func (m *mockDocumentStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.doc, nil
}

func (m *mockDocumentStore) Update(ctx context.Context, doc *model.Document) error {
	m.updateLog = append(m.updateLog, doc.Status)
	if m.updateFail > 0 && len(m.updateLog) == m.updateFail {
		return m.updateErr
	}
	if m.updateFail == 0 && m.updateErr != nil {
		return m.updateErr
	}
	return nil
}

type mockExtractionStore struct {
	created   []*model.FinancialExtraction
	createErr error
}

func (m *mockExtractionStore) Create(ctx context.Context, extraction *model.FinancialExtraction) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, extraction)
	return nil
}

type mockValidationStore struct {
	batches   [][]model.FinancialValidation
	createErr error
}

func (m *mockValidationStore) CreateBatch(ctx context.Context, validations []model.FinancialValidation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.batches = append(m.batches, validations)
	return nil
}

type mockRiskStore struct {
	batches   [][]model.RiskFlag
	createErr error
}

func (m *mockRiskStore) CreateBatch(ctx context.Context, flags []model.RiskFlag) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.batches = append(m.batches, flags)
	return nil
}

type mockChunkStore struct {
	replaceCalls int
	lastChunks   []model.DocumentChunk
	replaceErr   error
}

func (m *mockChunkStore) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, chunks []model.DocumentChunk) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls++
	m.lastChunks = chunks
	return nil
}

type mockSearchStore struct {
	matches   []repository.ChunkMatch
	searchErr error
	gotTopK   int
	gotType   model.DocumentType
}

func (m *mockSearchStore) SearchByEmbedding(ctx context.Context, embedding pgvector.Vector, documentType model.DocumentType, topK int) ([]repository.ChunkMatch, error) {
	m.gotTopK = topK
	m.gotType = documentType
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.matches, nil
}

type mockAuditStore struct {
	entries   []*model.AuditLog
	createErr error
}

func (m *mockAuditStore) Create(ctx context.Context, entry *model.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

type mockTextExtractor struct {
	text  string
	pages int
	err   error
}

func (m *mockTextExtractor) Extract(ctx context.Context, filePath, mimeType string) (string, int, error) {
	return m.text, m.pages, m.err
}

type mockClassifier struct {
	docType model.DocumentType
	err     error
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (model.DocumentType, error) {
	return m.docType, m.err
}

type mockStructuredExtractor struct {
	fields     model.JSONMap
	confidence float64
	err        error
}

func (m *mockStructuredExtractor) ExtractStructured(ctx context.Context, text string, docType model.DocumentType) (model.JSONMap, float64, error) {
	return m.fields, m.confidence, m.err
}

type mockEmbedder struct {
	batchErr  error
	queryErr  error
	lastBatch []string
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	m.lastBatch = texts
	vectors := make([]pgvector.Vector, len(texts))
	for i := range vectors {
		vectors[i] = pgvector.NewVector([]float32{float32(i), 0, 1})
	}
	return vectors, nil
}

func (m *mockEmbedder) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	if m.queryErr != nil {
		return pgvector.Vector{}, m.queryErr
	}
	return pgvector.NewVector([]float32{1, 0, 0}), nil
}

type mockExplainer struct {
	err error
}

func (m *mockExplainer) Explain(ctx context.Context, candidate risk.Candidate, docCtx risk.DocumentContext) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "AI: " + candidate.Description, nil
}
