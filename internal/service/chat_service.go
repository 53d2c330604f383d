package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/store"
)

// ChatService exposes conversation operations to the API layer
type ChatService struct {
	store *store.Store
}

// NewChatService creates a new chat service
func NewChatService(st *store.Store) *ChatService {
	return &ChatService{store: st}
}

// List returns the user's chats, newest first
func (s *ChatService) List(username string) ([]*domain.Chat, error) {
	return s.store.Chats.List(username)
}

// Count reports how many chats the user holds and how many remain before
// the cap. A hint only; the store re-checks the cap at creation time.
func (s *ChatService) Count(username string) (*domain.ChatCountResponse, error) {
	count, err := s.store.Chats.Count(username)
	if err != nil {
		return nil, err
	}

	max := s.store.Chats.MaxChats()
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return &domain.ChatCountResponse{Total: count, Remaining: remaining, MaxAllowed: max}, nil
}

// Get returns a single chat or nil when absent
func (s *ChatService) Get(username, chatID string) (*domain.Chat, error) {
	return s.store.Chats.Get(username, chatID)
}

// Create creates a chat for the user, evicting the oldest one if the user
// is at the cap
func (s *ChatService) Create(username, userID string, req *domain.CreateChatRequest) (*domain.Chat, error) {
	chat := &domain.Chat{
		UserID:      userID,
		Title:       req.Title,
		DocumentIDs: req.DocumentIDs,
	}
	if err := s.store.Chats.Create(username, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// Update patches a chat's title or document scope
func (s *ChatService) Update(username, chatID string, patch *domain.ChatUpdate) (*domain.Chat, error) {
	return s.store.Chats.Update(username, chatID, patch)
}

// Delete removes a chat, reporting whether it existed
func (s *ChatService) Delete(username, chatID string) (bool, error) {
	return s.store.Chats.Delete(username, chatID)
}

// AddMessage appends a message to a chat, assigning an id and timestamp
// when the caller supplied none
func (s *ChatService) AddMessage(username, chatID string, msg domain.Message) (*domain.Chat, error) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	return s.store.Chats.AppendMessage(username, chatID, msg)
}

// DeleteMessage removes a single message from a chat
func (s *ChatService) DeleteMessage(username, chatID, messageID string) (*domain.Chat, error) {
	return s.store.Chats.DeleteMessage(username, chatID, messageID)
}
