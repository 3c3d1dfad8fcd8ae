package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tgo/finsight/internal/chunker"
	"github.com/tgo/finsight/internal/model"
)

// IndexingService chunks document text, embeds all chunks in one
// provider call, and atomically replaces the document's chunk set.
type IndexingService struct {
	chunker  *chunker.Chunker
	embedder Embedder
	chunks   ChunkStore
	logger   *slog.Logger
}

func NewIndexingService(splitter *chunker.Chunker, embedder Embedder, chunks ChunkStore) *IndexingService {
	return &IndexingService{
		chunker:  splitter,
		embedder: embedder,
		chunks:   chunks,
		logger:   slog.Default().With("component", "indexer"),
	}
}

// IndexDocument returns the number of chunks stored. Empty text yields
// zero chunks without error; stale chunks from a prior run are still
// cleared.
func (s *IndexingService) IndexDocument(ctx context.Context, doc *model.Document) (int, error) {
	pieces := s.chunker.Split(doc.ExtractedText)
	if len(pieces) == 0 {
		if err := s.chunks.ReplaceForDocument(ctx, doc.ID, nil); err != nil {
			return 0, fmt.Errorf("failed to clear chunks: %w", err)
		}
		return 0, nil
	}

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(pieces) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(pieces), len(vectors))
	}

	records := make([]model.DocumentChunk, len(pieces))
	for i, p := range pieces {
		records[i] = model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkText:  p.Text,
			ChunkIndex: p.Index,
			Embedding:  vectors[i],
			Metadata: model.JSONMap{
				"document_type": string(doc.DocumentType),
				"file_name":     doc.FileName,
			},
		}
	}

	if err := s.chunks.ReplaceForDocument(ctx, doc.ID, records); err != nil {
		return 0, fmt.Errorf("failed to store chunks: %w", err)
	}

	return len(records), nil
}
