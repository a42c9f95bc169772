package wizard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDraftNotFound is returned when a conversation has no active draft.
var ErrDraftNotFound = errors.New("wizard: draft not found")

// Store persists wizard drafts keyed by conversation identity.
type Store interface {
	// Get loads the active draft, or ErrDraftNotFound.
	Get(ctx context.Context, conversationID string) (*Draft, error)
	// Start replaces any existing draft for the conversation with draft.
	Start(ctx context.Context, draft *Draft) error
	// Update saves the draft's current field values and step.
	Update(ctx context.Context, draft *Draft) error
	// Clear deletes the conversation's draft. Clearing a missing draft is
	// not an error.
	Clear(ctx context.Context, conversationID string) error
}

// InMemoryStore keeps drafts in a map. Used in tests and database-less runs.
type InMemoryStore struct {
	mu     sync.Mutex
	nextID int64
	byConv map[string]*Draft
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byConv: make(map[string]*Draft)}
}

func (s *InMemoryStore) Get(_ context.Context, conversationID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.byConv[conversationID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *InMemoryStore) Start(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	draft.ID = s.nextID
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt
	cp := *draft
	s.byConv[draft.ConversationID] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byConv[draft.ConversationID]; !ok {
		return ErrDraftNotFound
	}
	draft.UpdatedAt = time.Now()
	cp := *draft
	s.byConv[draft.ConversationID] = &cp
	return nil
}

func (s *InMemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byConv, conversationID)
	return nil
}

var _ Store = (*InMemoryStore)(nil)
