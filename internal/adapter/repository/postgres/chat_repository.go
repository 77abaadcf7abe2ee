package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	chat.ID = uuid.New().String()
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = time.Now()

	query := `INSERT INTO chats (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, chat.ID, chat.UserID, chat.Title, chat.CreatedAt, chat.UpdatedAt)
	return err
}

func (r *chatRepository) ListByUser(ctx context.Context, userID string, skip, limit int) ([]entity.ChatSummary, error) {
	query := `
		SELECT c.id, c.user_id, c.title, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM messages m WHERE m.chat_id = c.id) AS message_count,
			(SELECT LEFT(m.content, 100) FROM messages m
				WHERE m.chat_id = c.id AND m.role = 'user'
				ORDER BY m.created_at DESC LIMIT 1) AS last_message
		FROM chats c
		WHERE c.user_id = $1
		ORDER BY c.updated_at DESC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []entity.ChatSummary
	for rows.Next() {
		var c entity.ChatSummary
		err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount, &c.LastMessage)
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}

	return chats, rows.Err()
}

func (r *chatRepository) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Chat, error) {
	var chat entity.Chat
	query := `SELECT id, user_id, title, created_at, updated_at
		FROM chats WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &chat, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) UpdateTitle(ctx context.Context, id, userID, title string) error {
	query := `UPDATE chats SET title = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	res, err := r.db.ExecContext(ctx, query, title, time.Now(), id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chat %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM chats WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("chat %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// AppendMessage adds one message to the chat's log and bumps the chat's
// updated_at in the same transaction.
func (r *chatRepository) AppendMessage(ctx context.Context, chatID string, msg *entity.Message) error {
	msg.ID = uuid.New().String()
	msg.ChatID = chatID
	msg.CreatedAt = time.Now()
	if msg.Sources == nil {
		msg.Sources = []entity.Source{}
	}

	sources, err := json.Marshal(msg.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO messages (id, chat_id, role, content, sources, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, query, msg.ID, msg.ChatID, msg.Role, msg.Content, sources, msg.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE chats SET updated_at = $1 WHERE id = $2`, msg.CreatedAt, chatID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *chatRepository) ListMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	query := `SELECT id, chat_id, role, content, sources, created_at
		FROM messages WHERE chat_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []entity.Message
	for rows.Next() {
		var msg entity.Message
		var sources []byte
		err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &sources, &msg.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(sources, &msg.Sources); err != nil {
			return nil, fmt.Errorf("failed to decode sources for message %s: %w", msg.ID, err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (r *chatRepository) CountMessages(ctx context.Context, chatID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages WHERE chat_id = $1`, chatID)
	return count, err
}
