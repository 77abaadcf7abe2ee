package chat

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"docuchat/internal/domain/entity"
	"docuchat/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatRepo struct {
	chats    map[string]*entity.Chat
	messages map[string][]entity.Message
	titles   map[string]string

	updateTitleErr error
	deleteErr      error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    map[string]*entity.Chat{},
		messages: map[string][]entity.Message{},
		titles:   map[string]string{},
	}
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	chat.ID = uuid.New().String()
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) ListByUser(ctx context.Context, userID string, skip, limit int) ([]entity.ChatSummary, error) {
	var out []entity.ChatSummary
	for _, c := range f.chats {
		if c.UserID == userID {
			out = append(out, entity.ChatSummary{Chat: *c, MessageCount: len(f.messages[c.ID])})
		}
	}
	return out, nil
}

func (f *fakeChatRepo) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Chat, error) {
	c, ok := f.chats[id]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	return c, nil
}

func (f *fakeChatRepo) UpdateTitle(ctx context.Context, id, userID, title string) error {
	if f.updateTitleErr != nil {
		return f.updateTitleErr
	}
	f.titles[id] = title
	f.chats[id].Title = title
	return nil
}

func (f *fakeChatRepo) Delete(ctx context.Context, id, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.chats, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, chatID string, msg *entity.Message) error {
	msg.ID = uuid.New().String()
	msg.ChatID = chatID
	if msg.Sources == nil {
		msg.Sources = []entity.Source{}
	}
	f.messages[chatID] = append(f.messages[chatID], *msg)
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, chatID string) ([]entity.Message, error) {
	return f.messages[chatID], nil
}

func (f *fakeChatRepo) CountMessages(ctx context.Context, chatID string) (int, error) {
	return len(f.messages[chatID]), nil
}

type fakeAnswerer struct {
	answer  string
	sources []entity.Source
	err     error
	called  bool
}

func (f *fakeAnswerer) Answer(ctx context.Context, question string, k int) (string, []entity.Source, error) {
	f.called = true
	return f.answer, f.sources, f.err
}

func TestCreateChatDefaultTitle(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo(), &fakeAnswerer{})

	created, err := uc.CreateChat(context.Background(), "user-1", "  ")
	require.NoError(t, err)
	assert.Equal(t, "New Chat", created.Title)

	created, err = uc.CreateChat(context.Background(), "user-1", "Visa questions")
	require.NoError(t, err)
	assert.Equal(t, "Visa questions", created.Title)
}

func TestSendMessageAppendsBothTurns(t *testing.T) {
	repo := newFakeChatRepo()
	answerer := &fakeAnswerer{
		answer: "grounded answer",
		sources: []entity.Source{
			{Title: "report.pdf (Page 2)", Content: "excerpt", Score: 0.8},
		},
	}
	uc := NewChatUsecase(repo, answerer)

	created, err := uc.CreateChat(context.Background(), "user-1", "")
	require.NoError(t, err)

	userMsg, assistantMsg, err := uc.SendMessage(context.Background(), created.ID, "user-1", "what does the report say?")
	require.NoError(t, err)

	assert.Equal(t, entity.RoleUser, userMsg.Role)
	assert.Empty(t, userMsg.Sources)
	assert.Equal(t, entity.RoleAssistant, assistantMsg.Role)
	assert.Equal(t, "grounded answer", assistantMsg.Content)
	assert.Equal(t, answerer.sources, assistantMsg.Sources)

	stored := repo.messages[created.ID]
	require.Len(t, stored, 2)
	assert.Equal(t, entity.RoleUser, stored[0].Role)
	assert.Equal(t, entity.RoleAssistant, stored[1].Role)
}

func TestSendMessageTitlesChatFromFirstQuestion(t *testing.T) {
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, &fakeAnswerer{answer: "a"})

	created, err := uc.CreateChat(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, _, err = uc.SendMessage(context.Background(), created.ID, "user-1", "first question")
	require.NoError(t, err)
	assert.Equal(t, "first question", repo.titles[created.ID])

	_, _, err = uc.SendMessage(context.Background(), created.ID, "user-1", "second question")
	require.NoError(t, err)
	assert.Equal(t, "first question", repo.titles[created.ID], "only the first message sets the title")
}

func TestSendMessageWrongOwner(t *testing.T) {
	repo := newFakeChatRepo()
	answerer := &fakeAnswerer{answer: "a"}
	uc := NewChatUsecase(repo, answerer)

	created, err := uc.CreateChat(context.Background(), "user-1", "")
	require.NoError(t, err)

	_, _, err = uc.SendMessage(context.Background(), created.ID, "intruder", "question")
	assert.ErrorIs(t, err, ErrChatNotFound)
	assert.False(t, answerer.called)
	assert.Empty(t, repo.messages[created.ID])
}

func TestWriteRaceSurfacesAsNotFound(t *testing.T) {
	// The chat passes the ownership lookup but is gone by the time the
	// write lands; the caller still sees "not found", not a server error.
	repo := newFakeChatRepo()
	uc := NewChatUsecase(repo, &fakeAnswerer{answer: "a"})

	created, err := uc.CreateChat(context.Background(), "user-1", "")
	require.NoError(t, err)

	repo.updateTitleErr = repository.ErrNotFound
	err = uc.RenameChat(context.Background(), created.ID, "user-1", "renamed")
	assert.ErrorIs(t, err, ErrChatNotFound)

	_, _, err = uc.SendMessage(context.Background(), created.ID, "user-1", "first question")
	assert.ErrorIs(t, err, ErrChatNotFound)

	repo.deleteErr = repository.ErrNotFound
	err = uc.DeleteChat(context.Background(), created.ID, "user-1")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestGetChatNotFound(t *testing.T) {
	uc := NewChatUsecase(newFakeChatRepo(), &fakeAnswerer{})

	_, _, err := uc.GetChat(context.Background(), "missing", "user-1")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestGenerateTitle(t *testing.T) {
	assert.Equal(t, "New Chat", GenerateTitle("   "))
	assert.Equal(t, "short question", GenerateTitle("short question"))

	long := strings.Repeat("q", 80)
	title := GenerateTitle(long)
	assert.Equal(t, strings.Repeat("q", 50)+"...", title)
	assert.Len(t, title, 53)

	// Truncation counts runes, not bytes.
	wide := GenerateTitle(strings.Repeat("日", 60))
	assert.True(t, utf8.ValidString(wide))
	assert.Equal(t, strings.Repeat("日", 50)+"...", wide)
	assert.Equal(t, 53, utf8.RuneCountInString(wide))
}
