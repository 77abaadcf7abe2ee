package rag

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/domain/entity"
)

// NoContextAnswer is returned when retrieval finds nothing; the generation
// capability is not invoked in that case.
const NoContextAnswer = "No relevant context found in the uploaded PDFs."

// excerptLimit bounds each source excerpt, counted in runes so the cut
// never splits a multi-byte character.
const excerptLimit = 300

// GenerationService is the external text-generation capability.
type GenerationService interface {
	GenerateAnswer(ctx context.Context, question, context string) (string, error)
}

// AnswerComposer turns ranked chunks into a grounded answer with attributed
// sources.
type AnswerComposer struct {
	generator GenerationService
}

func NewAnswerComposer(generator GenerationService) *AnswerComposer {
	return &AnswerComposer{generator: generator}
}

// Compose concatenates the ranked chunk texts (highest score first, blank
// line separated) into a context block, asks the generator for an answer,
// and maps each chunk to a source attribution. An empty ranked set
// short-circuits to the fixed no-context answer without a generation call.
func (ac *AnswerComposer) Compose(ctx context.Context, question string, ranked []entity.ScoredChunk) (string, []entity.Source, error) {
	if len(ranked) == 0 {
		return NoContextAnswer, []entity.Source{}, nil
	}

	texts := make([]string, len(ranked))
	for i, chunk := range ranked {
		texts[i] = chunk.Text
	}
	contextBlock := strings.Join(texts, "\n\n")

	answer, err := ac.generator.GenerateAnswer(ctx, question, contextBlock)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrAnswerGeneration, err)
	}
	if answer == "" {
		return "", nil, fmt.Errorf("%w: empty completion", ErrAnswerGeneration)
	}

	sources := make([]entity.Source, len(ranked))
	for i, chunk := range ranked {
		excerpt := chunk.Text
		if runes := []rune(excerpt); len(runes) > excerptLimit {
			excerpt = string(runes[:excerptLimit])
		}
		sources[i] = entity.Source{
			Title:   fmt.Sprintf("%s (Page %d)", chunk.SourceDocument, chunk.Page),
			Content: excerpt,
			Score:   chunk.Score,
		}
	}

	return answer, sources, nil
}
