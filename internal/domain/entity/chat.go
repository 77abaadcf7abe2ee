package entity

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Chat struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Message is one turn in a chat. Sources is empty for user-role messages.
type Message struct {
	ID        string      `db:"id" json:"id"`
	ChatID    string      `db:"chat_id" json:"chatId"`
	Role      MessageRole `db:"role" json:"role"`
	Content   string      `db:"content" json:"content"`
	Sources   []Source    `json:"sources"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// ChatSummary is the list view of a chat: the chat row plus a message count
// and a short preview of the user's latest question.
type ChatSummary struct {
	Chat
	MessageCount int     `db:"message_count" json:"messageCount"`
	LastMessage  *string `db:"last_message" json:"lastMessage"`
}
