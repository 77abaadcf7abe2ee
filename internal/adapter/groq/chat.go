package groq

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a helpful assistant that answers questions based on the provided context. If the answer is not in the context, say so."

// requestTimeout bounds one completion call; a hung endpoint must not hold
// the request open indefinitely.
const requestTimeout = 60 * time.Second

// ChatClient generates answers through Groq's OpenAI-compatible chat
// completions API.
type ChatClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewChatClient(apiKey, baseURL, model string, temperature float64, maxTokens int) *ChatClient {
	return newChatClient(apiKey, baseURL, model, temperature, maxTokens, requestTimeout)
}

func newChatClient(apiKey, baseURL, model string, temperature float64, maxTokens int, timeout time.Duration) *ChatClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &ChatClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
	}
}

// GenerateAnswer asks the model to answer the question from the supplied
// context block. Temperature stays low so the model favors faithfulness to
// the context over creativity.
func (c *ChatClient) GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error) {
	userPrompt := fmt.Sprintf(`Based on the following context from the documents, answer the question accurately and concisely.

Context:
%s

Question: %s

Answer:`, contextBlock, question)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no completion returned")
	}

	return resp.Choices[0].Message.Content, nil
}
