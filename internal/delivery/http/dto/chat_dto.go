package dto

import (
	"time"

	"docuchat/internal/domain/entity"
)

type CreateChatRequest struct {
	Title string `json:"title"`
}

type RenameChatRequest struct {
	Title string `json:"title"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type MessageInfo struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Sources   []entity.Source `json:"sources"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ChatInfo struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	MessageCount int       `json:"messageCount"`
	LastMessage  *string   `json:"lastMessage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ChatDetail struct {
	ID           string        `json:"id"`
	UserID       string        `json:"userId"`
	Title        string        `json:"title"`
	Messages     []MessageInfo `json:"messages"`
	MessageCount int           `json:"messageCount"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

type SendMessageResponse struct {
	UserMessage      MessageInfo `json:"userMessage"`
	AssistantMessage MessageInfo `json:"assistantMessage"`
}
