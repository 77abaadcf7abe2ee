package rag

import (
	"fmt"
	"strings"

	"docuchat/internal/domain/entity"
)

// PageText is the text extracted from one page of a source document.
type PageText struct {
	Text           string
	Page           int
	SourceDocument string
}

// Chunker splits page texts into overlapping fixed-size word windows.
type Chunker struct {
	windowSize int
	overlap    int
}

// NewChunker validates the window parameters up front: overlap must stay
// below the window size, otherwise the sliding step would be non-positive
// and chunking would never terminate.
func NewChunker(windowSize, overlap int) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidChunking, windowSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidChunking, overlap)
	}
	if overlap >= windowSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than window size %d", ErrInvalidChunking, overlap, windowSize)
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}, nil
}

// Chunk produces successive word windows for every page, starting at offsets
// 0, step, 2*step, ... where step = windowSize - overlap. Windows that are
// empty after trimming are skipped; a page with no extractable text simply
// yields no chunks. The transformation is pure and deterministic.
func (c *Chunker) Chunk(pages []PageText) []entity.DocumentChunk {
	var chunks []entity.DocumentChunk

	step := c.windowSize - c.overlap
	for _, page := range pages {
		words := strings.Fields(page.Text)
		index := 0
		for offset := 0; offset < len(words); offset += step {
			end := offset + c.windowSize
			if end > len(words) {
				end = len(words)
			}

			text := strings.Join(words[offset:end], " ")
			if strings.TrimSpace(text) == "" {
				continue
			}

			chunks = append(chunks, entity.DocumentChunk{
				Text:           text,
				SourceDocument: page.SourceDocument,
				Page:           page.Page,
				SequenceID:     fmt.Sprintf("%s_p%d_c%d", page.SourceDocument, page.Page, index),
			})
			index++
		}
	}

	return chunks
}
