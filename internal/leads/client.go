package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/northstackhq/funnelbot/pkg/logging"
)

// Submitter hands a completed intake payload to the lead API. Implementations
// report plain success/failure; there are no partial-success semantics.
type Submitter interface {
	Submit(ctx context.Context, req *CreateLeadRequest) error
}

// APIClient submits leads to the HTTP lead API.
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger
}

// NewAPIClient creates a Submitter pointed at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration, logger *logging.Logger) *APIClient {
	if timeout <= 0 {
		timeout = 7 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Submit posts the payload to POST {base}/leads.
func (c *APIClient) Submit(ctx context.Context, req *CreateLeadRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("leads: encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/leads", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("leads: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("lead submission transport error", "error", err)
		return fmt.Errorf("leads: submit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("lead submission rejected", "status", resp.StatusCode)
		return fmt.Errorf("leads: submit: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// RepositorySubmitter writes leads straight into a Repository. Used when the
// wizard runs in the same process as the lead store.
type RepositorySubmitter struct {
	repo     Repository
	notifier LeadNotifier
	logger   *logging.Logger
}

// NewRepositorySubmitter creates a Submitter backed by repo. notifier may be nil.
func NewRepositorySubmitter(repo Repository, notifier LeadNotifier, logger *logging.Logger) *RepositorySubmitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RepositorySubmitter{repo: repo, notifier: notifier, logger: logger}
}

// Submit validates and stores the lead, then notifies best-effort.
func (s *RepositorySubmitter) Submit(ctx context.Context, req *CreateLeadRequest) error {
	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyNewLead(ctx, lead); err != nil {
			s.logger.Error("failed to notify about new lead", "error", err, "id", lead.ID)
		}
	}
	return nil
}

var (
	_ Submitter = (*APIClient)(nil)
	_ Submitter = (*RepositorySubmitter)(nil)
)
