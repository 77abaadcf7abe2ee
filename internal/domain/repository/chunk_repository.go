package repository

import (
	"context"

	"docuchat/internal/domain/entity"
)

// ChunkRepository is the durable collection of embedded chunks. Retrieval
// ranks in application code, so reads are a full collection scan rather than
// a pushed-down similarity query. That is intentional for the corpus sizes
// this service targets (a handful of PDFs).
type ChunkRepository interface {
	InsertAll(ctx context.Context, chunks []entity.DocumentChunk) error
	ScanAll(ctx context.Context) ([]entity.DocumentChunk, error)
	DeleteAll(ctx context.Context) error
}
