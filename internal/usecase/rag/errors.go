package rag

import "errors"

// Failure kinds surfaced by the ingestion and query pipelines. Callers match
// them with errors.Is and decide on status codes and user-visible messaging;
// nothing here is retried or swallowed internally.
var (
	// ErrInvalidChunking rejects bad chunker parameters before any I/O.
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrExtraction marks an unreadable or corrupt document.
	ErrExtraction = errors.New("document extraction failed")

	// ErrEmbeddingService marks a failure of the embedding capability.
	ErrEmbeddingService = errors.New("embedding service failed")

	// ErrAnswerGeneration marks a failure of the generation capability.
	ErrAnswerGeneration = errors.New("answer generation failed")

	// ErrStorage marks an unreachable store or a failed write.
	ErrStorage = errors.New("chunk storage failed")
)
