// Package store is the persistence layer for users, documents and chats.
//
// Users live in one shared table; documents and chats are partitioned per
// owner under a two-level (owner, id) key. The chat partition enforces a
// hard cap on retained conversations, evicting the oldest one by creation
// time when a create would exceed it.
package store

import (
	"github.com/docqa/docqa/internal/domain"
)

// Store is the gateway the rest of the application talks to. It composes
// the user, document and chat stores plus the raw file namespace and holds
// no policy of its own.
type Store struct {
	Users     *UserStore
	Documents *DocumentStore
	Chats     *ChatStore
	Files     *FileStore
}

// New creates a store over an open database and file root.
func New(db *DB, files *FileStore, maxChats int) *Store {
	return &Store{
		Users:     NewUserStore(db),
		Documents: NewDocumentStore(db),
		Chats:     NewChatStore(db, maxChats),
		Files:     files,
	}
}

// CreateUser registers a user and provisions the user's storage namespace.
func (s *Store) CreateUser(user *domain.User) error {
	if err := s.Users.Create(user); err != nil {
		return err
	}
	return s.Files.EnsureUser(user.Username)
}
