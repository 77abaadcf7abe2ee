package postgres

import (
	"context"
	"time"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type chunkRepository struct {
	db *sqlx.DB
}

func NewChunkRepository(db *sqlx.DB) repository.ChunkRepository {
	return &chunkRepository{db: db}
}

// InsertAll stores a batch of embedded chunks in one transaction.
func (r *chunkRepository) InsertAll(ctx context.Context, chunks []entity.DocumentChunk) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO document_chunks (id, text, source_document, page, sequence_id, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i := range chunks {
		chunks[i].ID = uuid.New().String()
		chunks[i].CreatedAt = time.Now()

		_, err := tx.ExecContext(ctx, query,
			chunks[i].ID,
			chunks[i].Text,
			chunks[i].SourceDocument,
			chunks[i].Page,
			chunks[i].SequenceID,
			chunks[i].Embedding,
			chunks[i].CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ScanAll returns every stored chunk with its embedding. Ranking happens in
// the retriever, so no similarity predicate is pushed down here.
func (r *chunkRepository) ScanAll(ctx context.Context) ([]entity.DocumentChunk, error) {
	query := `
		SELECT id, text, source_document, page, sequence_id, embedding, created_at
		FROM document_chunks
		ORDER BY created_at, sequence_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []entity.DocumentChunk
	for rows.Next() {
		var chunk entity.DocumentChunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.Text,
			&chunk.SourceDocument,
			&chunk.Page,
			&chunk.SequenceID,
			&chunk.Embedding,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

func (r *chunkRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM document_chunks`)
	return err
}
