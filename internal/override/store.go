// Package override manages the administrator-supplied prompt fragment that
// gets appended to the assistant's base instructions, including the embedded
// contact-override block.
package override

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MaxPromptLen caps the stored override fragment.
const MaxPromptLen = 8000

const configID = 1

// Store persists the single global prompt override.
type Store interface {
	// GetPrompt returns the override fragment, or "" when none is set.
	GetPrompt(ctx context.Context) (string, error)
	// SetPrompt stores the fragment, trimmed and clamped. An empty value
	// clears the override.
	SetPrompt(ctx context.Context, prompt string) error
}

// InMemoryStore holds the override in process memory.
type InMemoryStore struct {
	mu     sync.Mutex
	prompt string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) GetPrompt(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt, nil
}

func (s *InMemoryStore) SetPrompt(_ context.Context, prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = clampPrompt(prompt)
	return nil
}

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the override in the assistant_config singleton row.
type PostgresStore struct {
	pool Querier
}

func NewPostgresStore(pool Querier) *PostgresStore {
	if pool == nil {
		panic("override: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetPrompt(ctx context.Context) (string, error) {
	var prompt *string
	err := s.pool.QueryRow(ctx,
		`SELECT custom_prompt FROM assistant_config WHERE id = $1`, configID,
	).Scan(&prompt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("override: load prompt: %w", err)
	}
	if prompt == nil {
		return "", nil
	}
	return *prompt, nil
}

func (s *PostgresStore) SetPrompt(ctx context.Context, prompt string) error {
	value := clampPrompt(prompt)
	var stored *string
	if value != "" {
		stored = &value
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assistant_config (id, custom_prompt)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET custom_prompt = EXCLUDED.custom_prompt, updated_at = now()
	`, configID, stored)
	if err != nil {
		return fmt.Errorf("override: save prompt: %w", err)
	}
	return nil
}

func clampPrompt(prompt string) string {
	value := strings.TrimSpace(prompt)
	if len(value) > MaxPromptLen {
		value = value[:MaxPromptLen]
	}
	return value
}

var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
