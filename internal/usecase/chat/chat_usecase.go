package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"
)

// ErrChatNotFound covers both a missing chat and a chat owned by another
// user; callers must not be able to tell the two apart.
var ErrChatNotFound = errors.New("chat not found")

const defaultTitle = "New Chat"

// Answerer is the question-answering capability this layer consumes; the
// RAG query pipeline implements it.
type Answerer interface {
	Answer(ctx context.Context, question string, k int) (string, []entity.Source, error)
}

type ChatUsecase struct {
	chatRepo repository.ChatRepository
	answerer Answerer
}

func NewChatUsecase(chatRepo repository.ChatRepository, answerer Answerer) *ChatUsecase {
	return &ChatUsecase{
		chatRepo: chatRepo,
		answerer: answerer,
	}
}

func (uc *ChatUsecase) CreateChat(ctx context.Context, userID, title string) (*entity.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}

	chat := &entity.Chat{
		UserID: userID,
		Title:  title,
	}
	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (uc *ChatUsecase) ListChats(ctx context.Context, userID string, skip, limit int) ([]entity.ChatSummary, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return uc.chatRepo.ListByUser(ctx, userID, skip, limit)
}

func (uc *ChatUsecase) GetChat(ctx context.Context, chatID, userID string) (*entity.Chat, []entity.Message, error) {
	chat, err := uc.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, ErrChatNotFound
	}

	messages, err := uc.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

// SendMessage appends the user's question to the chat, runs the query
// pipeline, and appends the assistant's grounded answer with its sources.
// The first message of a chat also sets the chat title from the question.
func (uc *ChatUsecase) SendMessage(ctx context.Context, chatID, userID, content string) (*entity.Message, *entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, errors.New("message content is required")
	}

	chat, err := uc.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, ErrChatNotFound
	}

	count, err := uc.chatRepo.CountMessages(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &entity.Message{
		Role:    entity.RoleUser,
		Content: content,
	}
	if err := uc.chatRepo.AppendMessage(ctx, chatID, userMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to append user message: %w", err)
	}

	if count == 0 {
		if err := uc.chatRepo.UpdateTitle(ctx, chatID, userID, GenerateTitle(content)); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, nil, ErrChatNotFound
			}
			return nil, nil, err
		}
	}

	answer, sources, err := uc.answerer.Answer(ctx, content, 0)
	if err != nil {
		return nil, nil, err
	}

	assistantMsg := &entity.Message{
		Role:    entity.RoleAssistant,
		Content: answer,
		Sources: sources,
	}
	if err := uc.chatRepo.AppendMessage(ctx, chatID, assistantMsg); err != nil {
		return nil, nil, fmt.Errorf("failed to append assistant message: %w", err)
	}

	return userMsg, assistantMsg, nil
}

func (uc *ChatUsecase) RenameChat(ctx context.Context, chatID, userID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title is required")
	}

	chat, err := uc.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}

	// The chat can vanish between the lookup and the write.
	if err := uc.chatRepo.UpdateTitle(ctx, chatID, userID, title); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return nil
}

func (uc *ChatUsecase) DeleteChat(ctx context.Context, chatID, userID string) error {
	chat, err := uc.chatRepo.FindByIDAndUserID(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}

	if err := uc.chatRepo.Delete(ctx, chatID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrChatNotFound
		}
		return err
	}
	return nil
}

// GenerateTitle derives a chat title from its first question by simple
// truncation.
func GenerateTitle(firstMessage string) string {
	title := strings.TrimSpace(firstMessage)
	if title == "" {
		return defaultTitle
	}
	if runes := []rune(title); len(runes) > 50 {
		title = string(runes[:50]) + "..."
	}
	return title
}
