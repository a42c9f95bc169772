package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/northstackhq/funnelbot/internal/leads"
)

var tracer = otel.Tracer("funnelbot/profiles")

// Querier is the subset of pgxpool.Pool the store needs. pgxmock satisfies
// it in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepository stores profiles in the lead_profiles table.
type PostgresRepository struct {
	pool Querier
}

// NewPostgresRepository initializes the store.
func NewPostgresRepository(pool Querier) *PostgresRepository {
	if pool == nil {
		panic("profiles: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

const profileColumns = `id, conversation_id, channel_user_id, channel_username,
		name, company, service, budget, contact, details,
		message_count, sent_to_managers, sent_lead_id, created_at, updated_at`

func (r *PostgresRepository) GetByConversation(ctx context.Context, conversationID string) (*Profile, error) {
	ctx, span := tracer.Start(ctx, "profiles.GetByConversation",
		trace.WithAttributes(attribute.String("conversation.id", conversationID)))
	defer span.End()

	query := `SELECT ` + profileColumns + ` FROM lead_profiles WHERE conversation_id = $1`
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, conversationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("profiles: select failed: %w", err)
	}
	return profile, nil
}

func (r *PostgresRepository) Save(ctx context.Context, profile *Profile) error {
	ctx, span := tracer.Start(ctx, "profiles.Save",
		trace.WithAttributes(attribute.String("conversation.id", profile.ConversationID)))
	defer span.End()

	query := `
		INSERT INTO lead_profiles (
			conversation_id, channel_user_id, channel_username,
			name, company, service, budget, contact, details,
			message_count, sent_to_managers, sent_lead_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (conversation_id) DO UPDATE SET
			channel_user_id = EXCLUDED.channel_user_id,
			channel_username = EXCLUDED.channel_username,
			name = EXCLUDED.name,
			company = EXCLUDED.company,
			service = EXCLUDED.service,
			budget = EXCLUDED.budget,
			contact = EXCLUDED.contact,
			details = EXCLUDED.details,
			message_count = EXCLUDED.message_count,
			sent_to_managers = EXCLUDED.sent_to_managers,
			sent_lead_id = EXCLUDED.sent_lead_id,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		profile.ConversationID,
		nullable(profile.ChannelUserID),
		nullable(profile.ChannelUsername),
		profile.Name,
		profile.Company,
		profile.Service,
		profile.Budget,
		profile.Contact,
		profile.Details,
		profile.MessageCount,
		profile.SentToManagers,
		profile.SentLeadID,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("profiles: upsert failed: %w", err)
	}
	return nil
}

// EmitLead inserts the lead row and marks the profile sent in one
// transaction, so a crash between the two cannot double-send.
func (r *PostgresRepository) EmitLead(ctx context.Context, profile *Profile, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	ctx, span := tracer.Start(ctx, "profiles.EmitLead",
		trace.WithAttributes(attribute.String("conversation.id", profile.ConversationID)))
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("profiles: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	lead := &leads.Lead{
		Source:  req.Source,
		Name:    req.Name,
		Company: req.Company,
		Service: req.Service,
		Budget:  req.Budget,
		Contact: req.Contact,
		Details: req.Details,
		Status:  leads.StatusNew,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO leads (source, name, company, service, budget, contact, details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`,
		req.Source, req.Name, req.Company, req.Service,
		req.Budget, req.Contact, req.Details, leads.StatusNew,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("profiles: insert lead: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE lead_profiles
		SET sent_to_managers = TRUE, sent_lead_id = $2, updated_at = now()
		WHERE conversation_id = $1
	`, profile.ConversationID, lead.ID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("profiles: mark sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrProfileNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("profiles: commit: %w", err)
	}

	profile.SentToManagers = true
	profile.SentLeadID = &lead.ID
	return lead, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var (
		p        Profile
		userID   *string
		username *string
	)
	if err := row.Scan(
		&p.ID,
		&p.ConversationID,
		&userID,
		&username,
		&p.Name,
		&p.Company,
		&p.Service,
		&p.Budget,
		&p.Contact,
		&p.Details,
		&p.MessageCount,
		&p.SentToManagers,
		&p.SentLeadID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if userID != nil {
		p.ChannelUserID = *userID
	}
	if username != nil {
		p.ChannelUsername = *username
	}
	return &p, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ Repository = (*PostgresRepository)(nil)
