package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"
	"github.com/pgvector/pgvector-go"
)

// Retriever ranks every stored chunk against a query embedding by cosine
// similarity. It scans the whole collection and scores in process, O(N*d)
// per query. There is deliberately no vector index here: the deployment
// target is a handful of documents, and an index-backed store could replace
// this behind the same contract without touching the composer.
type Retriever struct {
	chunkRepo repository.ChunkRepository
}

func NewRetriever(chunkRepo repository.ChunkRepository) *Retriever {
	return &Retriever{chunkRepo: chunkRepo}
}

// Retrieve returns the top-k chunks by descending similarity. Ties keep
// scan order (stable sort). Chunks with a zero-norm embedding, or any chunk
// when the query itself has zero norm, score negative infinity and are
// excluded instead of triggering a division by zero. An empty store returns
// an empty result, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query pgvector.Vector, k int) ([]entity.ScoredChunk, error) {
	if k < 1 {
		k = 1
	}

	chunks, err := r.chunkRepo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	queryVec := query.Slice()
	scored := make([]entity.ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		score := CosineSimilarity(queryVec, chunk.Embedding.Slice())
		scored = append(scored, entity.ScoredChunk{DocumentChunk: chunk, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	top := scored[:k]

	// Drop the guarded zero-norm entries from the tail.
	for len(top) > 0 && math.IsInf(top[len(top)-1].Score, -1) {
		top = top[:len(top)-1]
	}

	return top, nil
}

// CosineSimilarity computes dot(a, b) / (|a| * |b|). A zero-norm operand
// makes the quotient undefined, so it scores negative infinity and sorts
// below every real similarity.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return math.Inf(-1)
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
