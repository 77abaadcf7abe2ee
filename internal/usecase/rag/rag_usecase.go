package rag

import (
	"context"
	"fmt"
	"log"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"
	"github.com/pgvector/pgvector-go"
)

// EmbeddingService is the external embedding capability. Document and query
// texts are embedded into different representations of the same model
// family; the two spaces are dimensionally compatible and comparable via
// cosine similarity.
type EmbeddingService interface {
	EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error)
	EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error)
}

// UploadedFile is one raw document handed to ingestion.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// RAGUsecase wires the retrieval-and-ranking pipeline: extraction, chunking,
// embedding and storage on the ingest side; embedding, retrieval and answer
// composition on the query side. It keeps no state between calls — all
// conversational memory lives in the chat store.
type RAGUsecase struct {
	chunkRepo repository.ChunkRepository
	embedder  EmbeddingService
	extractor PageExtractor
	chunker   *Chunker
	retriever *Retriever
	composer  *AnswerComposer
	topK      int
}

func NewRAGUsecase(
	chunkRepo repository.ChunkRepository,
	embedder EmbeddingService,
	generator GenerationService,
	chunkSize, chunkOverlap int,
	topK int,
) (*RAGUsecase, error) {
	chunker, err := NewChunker(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	if topK < 1 {
		topK = 4
	}

	return &RAGUsecase{
		chunkRepo: chunkRepo,
		embedder:  embedder,
		extractor: NewTextExtractor(),
		chunker:   chunker,
		retriever: NewRetriever(chunkRepo),
		composer:  NewAnswerComposer(generator),
		topK:      topK,
	}, nil
}

// Ingest extracts, chunks, embeds and stores a batch of documents, returning
// the number of chunks inserted. The embedding call is batched over every
// chunk of every document. The first failure aborts the whole batch with no
// partial retry — the caller decides whether to re-upload. When replace is
// set, all previously stored chunks are dropped before inserting; otherwise
// the new batch accumulates alongside them.
func (uc *RAGUsecase) Ingest(ctx context.Context, files []UploadedFile, replace bool) (int, error) {
	var chunks []entity.DocumentChunk
	for _, file := range files {
		pages, err := uc.extractor.ExtractPages(file.Filename, file.Data)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		chunks = append(chunks, uc.chunker.Chunk(pages)...)
	}
	log.Printf("Extracted %d chunks from %d documents", len(chunks), len(files))

	if len(chunks) == 0 {
		// An explicit replace still clears the index, even when the new
		// batch produced no text.
		if replace {
			if err := uc.chunkRepo.DeleteAll(ctx); err != nil {
				return 0, fmt.Errorf("%w: %v", ErrStorage, err)
			}
		}
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := uc.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbeddingService, len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if replace {
		if err := uc.chunkRepo.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	if err := uc.chunkRepo.InsertAll(ctx, chunks); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	log.Printf("Stored %d embedded chunks", len(chunks))

	return len(chunks), nil
}

// Answer embeds the question, retrieves the top-k most similar chunks and
// composes a grounded answer with attributed sources. k falls back to the
// configured default when non-positive.
func (uc *RAGUsecase) Answer(ctx context.Context, question string, k int) (string, []entity.Source, error) {
	if k < 1 {
		k = uc.topK
	}

	queryVec, err := uc.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	ranked, err := uc.retriever.Retrieve(ctx, queryVec, k)
	if err != nil {
		return "", nil, err
	}

	return uc.composer.Compose(ctx, question, ranked)
}
