package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool() error = %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("INSERT INTO leads").
		WithArgs("telegram", "John Doe", "Acme Inc", "CRM integration", "5000", "+15551234567",
			"Needs a CRM connected to the storefront", StatusNew).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if lead.ID != 7 {
		t.Errorf("ID = %d, want 7", lead.ID)
	}
	if !lead.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", lead.CreatedAt, now)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool() error = %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT id, source, name").
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, ErrLeadNotFound) {
		t.Errorf("GetByID() = %v, want %v", err, ErrLeadNotFound)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool() error = %v", err)
	}
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "source", "name", "company", "service", "budget", "contact", "details", "status", "created_at",
	}).
		AddRow(int64(2), "telegram_ai", "Jane", "Beta LLC", "Website development", "Negotiable",
			"jane@beta.io", "Needs a marketing site", StatusNew, now).
		AddRow(int64(1), "telegram", "John Doe", "Acme Inc", "CRM integration", "5000",
			"+15551234567", "Needs a CRM connected to the storefront", StatusNew, now)

	mock.ExpectQuery("SELECT id, source, name").
		WithArgs(2, 0).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	list, err := repo.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d leads, want 2", len(list))
	}
	if list[0].ID != 2 || list[1].ID != 1 {
		t.Errorf("List() order = %d, %d; want 2, 1", list[0].ID, list[1].ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
