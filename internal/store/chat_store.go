package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/domain"
)

// DefaultMaxChats is the number of chats a user may retain concurrently.
const DefaultMaxChats = 5

// ChatStore handles chat persistence and owns the bounded-capacity
// retention policy: a user keeps at most maxChats chats, and creating one
// past the cap evicts the oldest chat by creation time first.
type ChatStore struct {
	db       *DB
	locks    *ownerLocks
	maxChats int
}

// NewChatStore creates a new chat store. maxChats <= 0 falls back to
// DefaultMaxChats.
func NewChatStore(db *DB, maxChats int) *ChatStore {
	if maxChats <= 0 {
		maxChats = DefaultMaxChats
	}
	return &ChatStore{db: db, locks: newOwnerLocks(), maxChats: maxChats}
}

// MaxChats returns the per-user chat cap.
func (s *ChatStore) MaxChats() int {
	return s.maxChats
}

// Create persists a new chat, assigning an id and equal creation and
// last-updated timestamps when unset. If the owner is already at the cap,
// the chat with the earliest creation timestamp (ties broken by lowest id)
// is deleted first, so the cap holds after every call. The count, the
// eviction and the insert run under the owner's lock; two concurrent
// creates cannot both observe a full set.
func (s *ChatStore) Create(owner string, chat *domain.Chat) error {
	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	count, err := s.Count(owner)
	if err != nil {
		return err
	}

	var evict string
	if count >= s.maxChats {
		err := s.db.QueryRow(`
			SELECT id FROM chats WHERE owner = ?
			ORDER BY created_at ASC, id ASC LIMIT 1
		`, owner).Scan(&evict)
		if err != nil {
			return fmt.Errorf("failed to pick chat to evict: %w", err)
		}
	}

	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	if chat.DocumentIDs == nil {
		chat.DocumentIDs = []string{}
	}
	if chat.Messages == nil {
		chat.Messages = []domain.Message{}
	}

	if evict != "" {
		if _, err := s.db.Exec(`DELETE FROM chats WHERE owner = ? AND id = ?`, owner, evict); err != nil {
			return fmt.Errorf("failed to evict chat %s: %w", evict, err)
		}
	}

	docIDsJSON, _ := json.Marshal(chat.DocumentIDs)
	messagesJSON, _ := json.Marshal(chat.Messages)

	_, err = s.db.Exec(`
		INSERT INTO chats (owner, id, user_id, title, document_ids, messages, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, owner, chat.ID, chat.UserID, chat.Title, string(docIDsJSON),
		string(messagesJSON), chat.CreatedAt, chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert chat: %w", err)
	}

	return nil
}

// List retrieves all chats for an owner, newest first.
func (s *ChatStore) List(owner string) ([]*domain.Chat, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, title, document_ids, messages, created_at, updated_at
		FROM chats WHERE owner = ?
		ORDER BY created_at DESC, id DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		chat, err := scanChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}

	return chats, rows.Err()
}

// Get retrieves a chat by ID. Returns (nil, nil) when no such chat exists.
func (s *ChatStore) Get(owner, chatID string) (*domain.Chat, error) {
	chat, err := scanChat(s.db.QueryRow(`
		SELECT id, user_id, title, document_ids, messages, created_at, updated_at
		FROM chats WHERE owner = ? AND id = ?
	`, owner, chatID).Scan)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return chat, nil
}

// Update merges the given fields into an existing chat, refreshes the
// last-updated timestamp and returns the merged record. Fails with
// domain.ErrNotFound when the chat is absent. Update never evicts;
// eviction only triggers on creation.
func (s *ChatStore) Update(owner, chatID string, patch *domain.ChatUpdate) (*domain.Chat, error) {
	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	chat, err := s.Get(owner, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}

	if patch.Title != nil {
		chat.Title = *patch.Title
	}
	if patch.DocumentIDs != nil {
		chat.DocumentIDs = *patch.DocumentIDs
	}

	if err := s.persist(owner, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// Delete removes a chat. Returns false when no record existed.
func (s *ChatStore) Delete(owner, chatID string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM chats WHERE owner = ? AND id = ?`, owner, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to delete chat: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AppendMessage appends a message to the end of a chat's message log,
// refreshes the last-updated timestamp and returns the updated chat.
// Fails with domain.ErrNotFound when the chat is absent. Message id
// assignment is the caller's responsibility.
func (s *ChatStore) AppendMessage(owner, chatID string, msg domain.Message) (*domain.Chat, error) {
	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	chat, err := s.Get(owner, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}

	chat.Messages = append(chat.Messages, msg)

	if err := s.persist(owner, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// DeleteMessage removes a single message from a chat's log by message id,
// refreshes the last-updated timestamp and returns the updated chat.
// Fails with domain.ErrNotFound when the chat is absent; a missing
// message id leaves the log unchanged.
func (s *ChatStore) DeleteMessage(owner, chatID, messageID string) (*domain.Chat, error) {
	lock := s.locks.get(owner)
	lock.Lock()
	defer lock.Unlock()

	chat, err := s.Get(owner, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, domain.ErrNotFound
	}

	kept := chat.Messages[:0]
	for _, m := range chat.Messages {
		if m.ID != messageID {
			kept = append(kept, m)
		}
	}
	chat.Messages = kept

	if err := s.persist(owner, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

// Count returns the owner's current chat count. A hint for callers; the
// authoritative cap check happens inside Create.
func (s *ChatStore) Count(owner string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chats WHERE owner = ?`, owner).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count chats: %w", err)
	}
	return count, nil
}

// persist writes a mutated chat back, advancing updated_at. The chat's id
// and owner are never touched.
func (s *ChatStore) persist(owner string, chat *domain.Chat) error {
	chat.UpdatedAt = time.Now().UTC()

	docIDsJSON, _ := json.Marshal(chat.DocumentIDs)
	messagesJSON, _ := json.Marshal(chat.Messages)

	result, err := s.db.Exec(`
		UPDATE chats SET title = ?, document_ids = ?, messages = ?, updated_at = ?
		WHERE owner = ? AND id = ?
	`, chat.Title, string(docIDsJSON), string(messagesJSON), chat.UpdatedAt, owner, chat.ID)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanChat(scan func(dest ...any) error) (*domain.Chat, error) {
	chat := &domain.Chat{}
	var userID, docIDsJSON, messagesJSON sql.NullString

	if err := scan(&chat.ID, &userID, &chat.Title, &docIDsJSON,
		&messagesJSON, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
		return nil, err
	}

	chat.UserID = userID.String
	chat.DocumentIDs = []string{}
	if docIDsJSON.Valid && docIDsJSON.String != "" {
		json.Unmarshal([]byte(docIDsJSON.String), &chat.DocumentIDs)
	}
	chat.Messages = []domain.Message{}
	if messagesJSON.Valid && messagesJSON.String != "" {
		json.Unmarshal([]byte(messagesJSON.String), &chat.Messages)
	}

	return chat, nil
}
