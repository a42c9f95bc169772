package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAPIClientSubmit(t *testing.T) {
	var received CreateLeadRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/leads" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"ok","lead_id":1}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 2*time.Second, nil)
	if err := client.Submit(context.Background(), validRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if received.Name != "John Doe" {
		t.Errorf("server received name %q, want %q", received.Name, "John Doe")
	}
}

func TestAPIClientSubmitRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, 2*time.Second, nil)
	if err := client.Submit(context.Background(), validRequest()); err == nil {
		t.Fatal("Submit() = nil, want error on 400 response")
	}
}

func TestRepositorySubmitter(t *testing.T) {
	repo := NewInMemoryRepository()
	notifier := &captureNotifier{}
	sub := NewRepositorySubmitter(repo, notifier, nil)

	if err := sub.Submit(context.Background(), validRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	list, err := repo.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("stored %d leads, want 1", len(list))
	}
	if len(notifier.leads) != 1 {
		t.Errorf("notifier received %d leads, want 1", len(notifier.leads))
	}
}
