package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mhollis/cram-api/internal/domain"
	"github.com/mhollis/cram-api/internal/store"
)

// NoteStore is the in-memory implementation of store.NoteStore.
type NoteStore struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]domain.Note
}

// NewNoteStore creates an empty in-memory note store.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: make(map[uuid.UUID]domain.Note),
	}
}

// Ensure NoteStore implements store.NoteStore
var _ store.NoteStore = (*NoteStore)(nil)

// Create implements store.NoteStore.Create.
func (s *NoteStore) Create(ctx context.Context, note *domain.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[note.ID] = *note
	return nil
}

// GetByID implements store.NoteStore.GetByID.
func (s *NoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	return &note, nil
}

// Update implements store.NoteStore.Update. The patch is applied as a
// shallow merge: nil fields keep their stored values.
func (s *NoteStore) Update(ctx context.Context, id uuid.UUID, patch store.NotePatch) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}

	if patch.Title != nil {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	note.UpdatedAt = time.Now().UTC()

	s.notes[id] = note
	return &note, nil
}

// Delete implements store.NoteStore.Delete.
func (s *NoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[id]; !ok {
		return store.ErrNoteNotFound
	}
	delete(s.notes, id)
	return nil
}

// ListByUserID implements store.NoteStore.ListByUserID. Results are ordered
// by creation time, oldest first.
func (s *NoteStore) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Note
	for _, note := range s.notes {
		if note.UserID == userID {
			n := note
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ListByDocumentID implements store.NoteStore.ListByDocumentID.
func (s *NoteStore) ListByDocumentID(ctx context.Context, documentID uuid.UUID) ([]*domain.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Note
	for _, note := range s.notes {
		if note.DocumentID != nil && *note.DocumentID == documentID {
			n := note
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// WithTx implements store.NoteStore.WithTx. The memory backend has no
// transactions; the same store is returned.
func (s *NoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return s
}
