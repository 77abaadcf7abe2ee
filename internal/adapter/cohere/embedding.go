package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pgvector/pgvector-go"
)

const (
	inputTypeDocument = "search_document"
	inputTypeQuery    = "search_query"

	// The capability is rate-limited by a third party, so retries stay
	// small and bounded; persistent failures are surfaced to the caller.
	maxRetries = 2
)

// EmbeddingClient calls Cohere's /embed endpoint. The input_type parameter
// selects the indexing or the querying representation of the model; both
// produce vectors of the same dimensionality.
type EmbeddingClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewEmbeddingClient(apiKey, baseURL, model string) *EmbeddingClient {
	return &EmbeddingClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *EmbeddingClient) EmbedDocuments(ctx context.Context, texts []string) ([]pgvector.Vector, error) {
	return c.embed(ctx, texts, inputTypeDocument)
}

func (c *EmbeddingClient) EmbedQuery(ctx context.Context, text string) (pgvector.Vector, error) {
	vectors, err := c.embed(ctx, []string{text}, inputTypeQuery)
	if err != nil {
		return pgvector.Vector{}, err
	}
	if len(vectors) == 0 {
		return pgvector.Vector{}, fmt.Errorf("no embedding returned for query")
	}
	return vectors[0], nil
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

func (c *EmbeddingClient) embed(ctx context.Context, texts []string, inputType string) ([]pgvector.Vector, error) {
	if len(texts) == 0 {
		return []pgvector.Vector{}, nil
	}

	body, err := json.Marshal(embedRequest{Texts: texts, Model: c.model, InputType: inputType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode embed request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("cohere embed failed: %s", resp.Status)
			continue
		}
		if resp.StatusCode >= 300 {
			payload, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("cohere embed failed: %s: %s", resp.Status, payload)
		}

		var out embedResponse
		err = json.NewDecoder(resp.Body).Decode(&out)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode embed response: %w", err)
		}
		if len(out.Embeddings) != len(texts) {
			return nil, fmt.Errorf("cohere returned %d embeddings for %d texts", len(out.Embeddings), len(texts))
		}

		vectors := make([]pgvector.Vector, len(out.Embeddings))
		for i, emb := range out.Embeddings {
			vectors[i] = pgvector.NewVector(emb)
		}
		return vectors, nil
	}

	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	d := 500 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
