// Package upload polls the ledger service's upload-status endpoint and
// reports progress until the upload reaches a terminal state.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Upload states reported by the service
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateComplete   = "complete"
	StateFailed     = "failed"
)

// Status is one snapshot of an upload job's progress
type Status struct {
	State     string `json:"state"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"`
}

// Done reports whether the upload has reached a terminal state
func (s Status) Done() bool {
	return s.State == StateComplete || s.State == StateFailed
}

// Percent returns the completion percentage, or 0 when the total is unknown
func (s Status) Percent() int {
	if s.Total <= 0 {
		return 0
	}
	return s.Processed * 100 / s.Total
}

// Poller fetches upload status on a fixed interval
type Poller struct {
	baseURL  string
	interval time.Duration
	http     *http.Client
}

// NewPoller creates a poller against the given service base URL
func NewPoller(baseURL string, interval, timeout time.Duration) *Poller {
	return &Poller{
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: interval,
		http:     &http.Client{Timeout: timeout},
	}
}

// Watch fetches the upload's status immediately and then on every tick,
// invoking onUpdate for each snapshot, until the upload reaches a terminal
// state or the context is cancelled. The final snapshot is returned; a
// failed upload is reported through the snapshot, not as an error.
func (p *Poller) Watch(ctx context.Context, uploadID string, onUpdate func(Status)) (Status, error) {
	status, err := p.fetch(ctx, uploadID)
	if err != nil {
		return Status{}, err
	}
	if onUpdate != nil {
		onUpdate(status)
	}
	if status.Done() {
		return status, nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
			status, err = p.fetch(ctx, uploadID)
			if err != nil {
				return status, err
			}
			if onUpdate != nil {
				onUpdate(status)
			}
			if status.Done() {
				return status, nil
			}
		}
	}
}

func (p *Poller) fetch(ctx context.Context, uploadID string) (Status, error) {
	endpoint := p.baseURL + "/uploads/" + url.PathEscape(uploadID) + "/status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Status{}, err
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return Status{}, fmt.Errorf("fetch upload status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return Status{}, fmt.Errorf("fetch upload status: server returned %s", resp.Status)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, fmt.Errorf("decode upload status: %w", err)
	}
	return status, nil
}
