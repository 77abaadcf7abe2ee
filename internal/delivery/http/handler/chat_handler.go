package handler

import (
	"errors"
	"strconv"

	"docuchat/internal/delivery/http/dto"
	"docuchat/internal/domain/entity"
	"docuchat/internal/usecase/chat"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatUsecase *chat.ChatUsecase
}

func NewChatHandler(chatUsecase *chat.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

func toMessageInfo(msg *entity.Message) dto.MessageInfo {
	return dto.MessageInfo{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   msg.Content,
		Sources:   msg.Sources,
		CreatedAt: msg.CreatedAt,
	}
}

func (h *ChatHandler) Create(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	var req dto.CreateChatRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	created, err := h.chatUsecase.CreateChat(c.Context(), userID, req.Title)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ChatInfo{
		ID:        created.ID,
		UserID:    created.UserID,
		Title:     created.Title,
		CreatedAt: created.CreatedAt,
		UpdatedAt: created.UpdatedAt,
	})
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	chats, err := h.chatUsecase.ListChats(c.Context(), userID, skip, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	infos := make([]dto.ChatInfo, 0, len(chats))
	for _, summary := range chats {
		infos = append(infos, dto.ChatInfo{
			ID:           summary.ID,
			UserID:       summary.UserID,
			Title:        summary.Title,
			MessageCount: summary.MessageCount,
			LastMessage:  summary.LastMessage,
			CreatedAt:    summary.CreatedAt,
			UpdatedAt:    summary.UpdatedAt,
		})
	}

	return c.Status(fiber.StatusOK).JSON(infos)
}

func (h *ChatHandler) Get(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	chatID := c.Params("id")

	found, messages, err := h.chatUsecase.GetChat(c.Context(), chatID, userID)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	msgInfos := make([]dto.MessageInfo, 0, len(messages))
	for i := range messages {
		msgInfos = append(msgInfos, toMessageInfo(&messages[i]))
	}

	return c.Status(fiber.StatusOK).JSON(dto.ChatDetail{
		ID:           found.ID,
		UserID:       found.UserID,
		Title:        found.Title,
		Messages:     msgInfos,
		MessageCount: len(msgInfos),
		CreatedAt:    found.CreatedAt,
		UpdatedAt:    found.UpdatedAt,
	})
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	chatID := c.Params("id")

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	userMsg, assistantMsg, err := h.chatUsecase.SendMessage(c.Context(), chatID, userID, req.Content)
	if err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(dto.SendMessageResponse{
		UserMessage:      toMessageInfo(userMsg),
		AssistantMessage: toMessageInfo(assistantMsg),
	})
}

func (h *ChatHandler) Rename(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	chatID := c.Params("id")

	var req dto.RenameChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.chatUsecase.RenameChat(c.Context(), chatID, userID, req.Title); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Chat title updated successfully", "title": req.Title})
}

func (h *ChatHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	chatID := c.Params("id")

	if err := h.chatUsecase.DeleteChat(c.Context(), chatID, userID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
