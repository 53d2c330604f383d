package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/docqa/docqa/internal/domain"
)

// UserStore handles user account persistence
type UserStore struct {
	db *DB

	// Serializes the uniqueness check with the insert. The UNIQUE
	// constraints in the schema are a backstop; the mutex keeps the
	// error taxonomy deterministic under concurrent registration.
	mu sync.Mutex
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new user. It fails with domain.ErrDuplicateUsername
// or domain.ErrDuplicateEmail when the username or email is taken, and
// assigns the id and creation timestamp on success.
func (s *UserStore) Create(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.GetByUsername(user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateUsername
	}

	if user.Email != "" {
		existing, err = s.GetByEmail(user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()

	_, err = s.db.Exec(`
		INSERT INTO users (id, username, email, full_name, hashed_password, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.Email, user.FullName, user.HashedPassword, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username. Returns (nil, nil) when no
// such user exists.
func (s *UserStore) GetByUsername(username string) (*domain.User, error) {
	return s.getBy(`username = ?`, username)
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when no such
// user exists.
func (s *UserStore) GetByEmail(email string) (*domain.User, error) {
	return s.getBy(`email = ?`, email)
}

func (s *UserStore) getBy(where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	var email, fullName sql.NullString

	err := s.db.QueryRow(`
		SELECT id, username, email, full_name, hashed_password, created_at
		FROM users WHERE `+where,
		arg).Scan(&user.ID, &user.Username, &email, &fullName,
		&user.HashedPassword, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	user.Email = email.String
	user.FullName = fullName.String

	return user, nil
}
