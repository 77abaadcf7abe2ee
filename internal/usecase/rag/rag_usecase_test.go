package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docuchat/internal/domain/entity"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fakes for the capability and store contracts, shared across the package's
// tests.

type fakeChunkRepo struct {
	chunks      []entity.DocumentChunk
	scanErr     error
	insertErr   error
	deleteCalls int
	insertCalls int
}

func (f *fakeChunkRepo) InsertAll(ctx context.Context, chunks []entity.DocumentChunk) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkRepo) ScanAll(ctx context.Context) ([]entity.DocumentChunk, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.chunks, nil
}

func (f *fakeChunkRepo) DeleteAll(ctx context.Context) error {
	f.deleteCalls++
	f.chunks = nil
	return nil
}

type fakeGenerator struct {
	answer      string
	err         error
	called      bool
	gotQuestion string
	gotContext  string
}

func (f *fakeGenerator) GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error) {
	f.called = true
	f.gotQuestion = question
	f.gotContext = contextBlock
	return f.answer, f.err
}

type fakeEmbedder struct {
	docVectors [][]float32
	queryVec   []float32
	docErr     error
	queryErr   error
	docCalls   int
}

func (f *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	f.docCalls++
	if f.docErr != nil {
		return nil, f.docErr
	}
	vectors := make([]pgvector.Vector, len(texts))
	for i := range texts {
		vectors[i] = pgvector.NewVector(f.docVectors[i%len(f.docVectors)])
	}
	return vectors, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	if f.queryErr != nil {
		return pgvector.Vector{}, f.queryErr
	}
	return pgvector.NewVector(f.queryVec), nil
}

type fakeExtractor struct {
	pages map[string][]PageText
	err   error
}

func (f *fakeExtractor) ExtractPages(filename string, data []byte) ([]PageText, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[filename], nil
}

func words(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		if i > from {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "w%d", i)
	}
	return sb.String()
}

func newTestUsecase(t *testing.T, repo *fakeChunkRepo, embedder *fakeEmbedder, gen *fakeGenerator, extractor PageExtractor) *RAGUsecase {
	t.Helper()
	uc, err := NewRAGUsecase(repo, embedder, gen, 1000, 200, 4)
	require.NoError(t, err)
	if extractor != nil {
		uc.extractor = extractor
	}
	return uc
}

func TestIngestThenAnswerEndToEnd(t *testing.T) {
	// One document, one page of exactly 1500 words: windows at offsets 0
	// and 800.
	extractor := &fakeExtractor{pages: map[string][]PageText{
		"report.pdf": {{Text: words(0, 1500), Page: 1, SourceDocument: "report.pdf"}},
	}}
	repo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{
		docVectors: [][]float32{{1, 0}, {0, 1}},
		queryVec:   []float32{0.1, 0.9}, // nearest to the second chunk
	}
	gen := &fakeGenerator{answer: "the answer"}
	uc := newTestUsecase(t, repo, embedder, gen, extractor)

	count, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "report.pdf", Data: []byte("pdf")}}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, embedder.docCalls, "embedding must be one batched call")
	require.Len(t, repo.chunks, 2)
	assert.Equal(t, "report.pdf_p1_c0", repo.chunks[0].SequenceID)
	assert.Equal(t, "report.pdf_p1_c1", repo.chunks[1].SequenceID)
	assert.Equal(t, []float32{1, 0}, repo.chunks[0].Embedding.Slice())
	assert.Equal(t, []float32{0, 1}, repo.chunks[1].Embedding.Slice())

	answer, sources, err := uc.Answer(context.Background(), "what is in the tail?", 1)
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)
	require.Len(t, sources, 1)
	assert.Equal(t, "report.pdf (Page 1)", sources[0].Title)
	assert.True(t, strings.HasPrefix(repo.chunks[1].Text, sources[0].Content),
		"top source must come from the second chunk")
	assert.InDelta(t, CosineSimilarity([]float32{0.1, 0.9}, []float32{0, 1}), sources[0].Score, 1e-9)
}

func TestIngestReplacePolicy(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]PageText{
		"a.pdf": {{Text: "some page text", Page: 1, SourceDocument: "a.pdf"}},
	}}
	repo := &fakeChunkRepo{chunks: []entity.DocumentChunk{storedChunk("old", []float32{1, 0})}}
	embedder := &fakeEmbedder{docVectors: [][]float32{{1, 0}}}
	uc := newTestUsecase(t, repo, embedder, &fakeGenerator{}, extractor)

	count, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "a.pdf"}}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, repo.deleteCalls)
	require.Len(t, repo.chunks, 1)
	assert.Equal(t, "a.pdf_p1_c0", repo.chunks[0].SequenceID)

	// Default accumulates.
	count, err = uc.Ingest(context.Background(), []UploadedFile{{Filename: "a.pdf"}}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, repo.deleteCalls)
	assert.Len(t, repo.chunks, 2)
}

func TestIngestExtractionFailureAbortsBatch(t *testing.T) {
	repo := &fakeChunkRepo{}
	uc := newTestUsecase(t, repo, &fakeEmbedder{docVectors: [][]float32{{1}}}, &fakeGenerator{}, &fakeExtractor{err: assert.AnError})

	_, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "broken.pdf"}}, false)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.Zero(t, repo.insertCalls)
}

func TestIngestEmbeddingFailure(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]PageText{
		"a.pdf": {{Text: "text", Page: 1, SourceDocument: "a.pdf"}},
	}}
	repo := &fakeChunkRepo{}
	uc := newTestUsecase(t, repo, &fakeEmbedder{docErr: assert.AnError}, &fakeGenerator{}, extractor)

	_, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "a.pdf"}}, false)
	assert.ErrorIs(t, err, ErrEmbeddingService)
	assert.Zero(t, repo.insertCalls)
}

func TestIngestNothingExtracted(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]PageText{
		"empty.pdf": {{Text: "", Page: 1, SourceDocument: "empty.pdf"}},
	}}
	repo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{docVectors: [][]float32{{1}}}
	uc := newTestUsecase(t, repo, embedder, &fakeGenerator{}, extractor)

	count, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "empty.pdf"}}, false)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, embedder.docCalls)
	assert.Zero(t, repo.insertCalls)
	assert.Zero(t, repo.deleteCalls)
}

func TestIngestReplaceWithEmptyBatchClearsStore(t *testing.T) {
	extractor := &fakeExtractor{pages: map[string][]PageText{
		"empty.pdf": {{Text: "", Page: 1, SourceDocument: "empty.pdf"}},
	}}
	repo := &fakeChunkRepo{chunks: []entity.DocumentChunk{storedChunk("old", []float32{1, 0})}}
	uc := newTestUsecase(t, repo, &fakeEmbedder{docVectors: [][]float32{{1}}}, &fakeGenerator{}, extractor)

	count, err := uc.Ingest(context.Background(), []UploadedFile{{Filename: "empty.pdf"}}, true)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, repo.deleteCalls)
	assert.Empty(t, repo.chunks, "replace drops the old index even with nothing new to store")
}

func TestAnswerAgainstEmptyStore(t *testing.T) {
	gen := &fakeGenerator{answer: "unused"}
	uc := newTestUsecase(t, &fakeChunkRepo{}, &fakeEmbedder{queryVec: []float32{1, 0}}, gen, nil)

	answer, sources, err := uc.Answer(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Equal(t, NoContextAnswer, answer)
	assert.Empty(t, sources)
	assert.False(t, gen.called)
}

func TestAnswerEmbeddingFailure(t *testing.T) {
	uc := newTestUsecase(t, &fakeChunkRepo{}, &fakeEmbedder{queryErr: assert.AnError}, &fakeGenerator{}, nil)

	_, _, err := uc.Answer(context.Background(), "q", 0)
	assert.ErrorIs(t, err, ErrEmbeddingService)
}
