package profiles

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/northstackhq/funnelbot/internal/leads"
)

// ErrProfileNotFound is returned when no profile exists for a conversation.
var ErrProfileNotFound = errors.New("profiles: profile not found")

// Repository persists conversation profiles.
type Repository interface {
	// GetByConversation loads the profile for a conversation, or
	// ErrProfileNotFound if none exists yet.
	GetByConversation(ctx context.Context, conversationID string) (*Profile, error)
	// Save upserts the profile keyed by conversation id.
	Save(ctx context.Context, profile *Profile) error
	// EmitLead stores the lead and marks the profile as sent in one atomic
	// step. Either both records commit or neither does.
	EmitLead(ctx context.Context, profile *Profile, req *leads.CreateLeadRequest) (*leads.Lead, error)
}

// InMemoryRepository keeps profiles in a map. Used in tests and when the
// service runs without a database.
type InMemoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	byConv   map[string]*Profile
	leadRepo *leads.InMemoryRepository
}

// NewInMemoryRepository creates an empty store writing leads into leadRepo.
func NewInMemoryRepository(leadRepo *leads.InMemoryRepository) *InMemoryRepository {
	if leadRepo == nil {
		leadRepo = leads.NewInMemoryRepository()
	}
	return &InMemoryRepository{
		byConv:   make(map[string]*Profile),
		leadRepo: leadRepo,
	}
}

func (r *InMemoryRepository) GetByConversation(_ context.Context, conversationID string) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byConv[conversationID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *InMemoryRepository) Save(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.save(profile)
	return nil
}

func (r *InMemoryRepository) save(profile *Profile) {
	now := time.Now()
	if existing, ok := r.byConv[profile.ConversationID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		profile.ID = r.nextID
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	cp := *profile
	r.byConv[profile.ConversationID] = &cp
}

func (r *InMemoryRepository) EmitLead(ctx context.Context, profile *Profile, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	lead, err := r.leadRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	profile.SentToManagers = true
	profile.SentLeadID = &lead.ID
	r.save(profile)
	return lead, nil
}

var _ Repository = (*InMemoryRepository)(nil)
