package repository

import (
	"context"

	"docuchat/internal/domain/entity"
)

// ChatRepository persists conversations and their append-only message logs.
// Every lookup is scoped to the owning user; a chat belonging to someone
// else behaves exactly like a missing chat.
type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]entity.ChatSummary, error)
	FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Chat, error)
	UpdateTitle(ctx context.Context, id, userID, title string) error
	Delete(ctx context.Context, id, userID string) error

	AppendMessage(ctx context.Context, chatID string, msg *entity.Message) error
	ListMessages(ctx context.Context, chatID string) ([]entity.Message, error)
	CountMessages(ctx context.Context, chatID string) (int, error)
}
