package memory

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

// UserStore is the in-memory implementation of store.UserStore.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[uuid.UUID]domain.User),
	}
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.GetByEmail. Email comparison is
// case-insensitive, matching the unique index of the postgres backend.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.Update.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, patch store.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}

	if patch.Email != nil {
		for otherID, existing := range s.users {
			if otherID != id && strings.EqualFold(existing.Email, *patch.Email) {
				return nil, store.ErrEmailExists
			}
		}
		user.Email = *patch.Email
	}
	if patch.HashedPassword != nil {
		user.HashedPassword = *patch.HashedPassword
	}
	user.UpdatedAt = time.Now().UTC()

	s.users[id] = user
	return &user, nil
}

// Delete implements store.UserStore.Delete.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// WithTx implements store.UserStore.WithTx. The memory backend has no
// transactions; the same store is returned.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}
