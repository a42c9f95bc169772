package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps drafts in the lead_drafts table.
type PostgresStore struct {
	pool Querier
}

func NewPostgresStore(pool Querier) *PostgresStore {
	if pool == nil {
		panic("wizard: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, conversationID string) (*Draft, error) {
	query := `
		SELECT id, conversation_id, source, channel_user_id, channel_username,
			step, name, company, service, budget, details, created_at, updated_at
		FROM lead_drafts
		WHERE conversation_id = $1
	`
	var (
		d        Draft
		userID   *string
		username *string
	)
	err := s.pool.QueryRow(ctx, query, conversationID).Scan(
		&d.ID,
		&d.ConversationID,
		&d.Source,
		&userID,
		&username,
		&d.Step,
		&d.Name,
		&d.Company,
		&d.Service,
		&d.Budget,
		&d.Details,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("wizard: select draft: %w", err)
	}
	if userID != nil {
		d.ChannelUserID = *userID
	}
	if username != nil {
		d.ChannelUsername = *username
	}
	return &d, nil
}

// Start replaces any prior draft through an upsert on conversation_id.
func (s *PostgresStore) Start(ctx context.Context, draft *Draft) error {
	query := `
		INSERT INTO lead_drafts (
			conversation_id, source, channel_user_id, channel_username,
			step, name, company, service, budget, details
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (conversation_id) DO UPDATE SET
			source = EXCLUDED.source,
			channel_user_id = EXCLUDED.channel_user_id,
			channel_username = EXCLUDED.channel_username,
			step = EXCLUDED.step,
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			service = EXCLUDED.service,
			budget = EXCLUDED.budget,
			details = EXCLUDED.details,
			created_at = now(),
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	err := s.pool.QueryRow(ctx, query,
		draft.ConversationID,
		draft.Source,
		nullable(draft.ChannelUserID),
		nullable(draft.ChannelUsername),
		draft.Step,
		draft.Name,
		draft.Company,
		draft.Service,
		draft.Budget,
		draft.Details,
	).Scan(&draft.ID, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("wizard: start draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, draft *Draft) error {
	query := `
		UPDATE lead_drafts
		SET step = $2, name = $3, company = $4, service = $5, budget = $6, details = $7,
			updated_at = now()
		WHERE conversation_id = $1
		RETURNING updated_at
	`
	err := s.pool.QueryRow(ctx, query,
		draft.ConversationID,
		draft.Step,
		draft.Name,
		draft.Company,
		draft.Service,
		draft.Budget,
		draft.Details,
	).Scan(&draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDraftNotFound
		}
		return fmt.Errorf("wizard: update draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, conversationID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM lead_drafts WHERE conversation_id = $1`, conversationID); err != nil {
		return fmt.Errorf("wizard: clear draft: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Store = (*PostgresStore)(nil)
