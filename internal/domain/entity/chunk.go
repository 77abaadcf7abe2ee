package entity

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// DocumentChunk is one embedded window of words cut from a single PDF page.
// Chunks are immutable once stored; ingestion only appends (or bulk-replaces).
type DocumentChunk struct {
	ID             string          `db:"id" json:"id"`
	Text           string          `db:"text" json:"text"`
	SourceDocument string          `db:"source_document" json:"sourceDocument"`
	Page           int             `db:"page" json:"page"`
	SequenceID     string          `db:"sequence_id" json:"sequenceId"`
	Embedding      pgvector.Vector `db:"embedding" json:"-"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
}

// ScoredChunk pairs a stored chunk with its cosine similarity against one
// query. It only lives for the duration of that query.
type ScoredChunk struct {
	DocumentChunk
	Score float64 `json:"score"`
}

// Source is the user-facing attribution attached to an assistant answer.
type Source struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	URL     *string `json:"url"`
}
