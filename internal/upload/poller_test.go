package upload

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// sequenceServer serves a fixed sequence of statuses, repeating the last one
type sequenceServer struct {
	mu       sync.Mutex
	statuses []Status
	calls    int
}

func (s *sequenceServer) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.calls
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	s.calls++
	status := s.statuses[i]
	s.mu.Unlock()

	json.NewEncoder(w).Encode(status)
}

func TestWatchUntilComplete(t *testing.T) {
	seq := &sequenceServer{statuses: []Status{
		{State: StatePending, Processed: 0, Total: 4},
		{State: StateProcessing, Processed: 2, Total: 4},
		{State: StateComplete, Processed: 4, Total: 4},
	}}
	server := httptest.NewServer(http.HandlerFunc(seq.handler))
	defer server.Close()

	p := NewPoller(server.URL, 10*time.Millisecond, time.Second)

	var seen []Status
	final, err := p.Watch(context.Background(), "job-1", func(s Status) {
		seen = append(seen, s)
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if final.State != StateComplete {
		t.Errorf("final state = %q, want complete", final.State)
	}
	if len(seen) != 3 {
		t.Fatalf("observed %d snapshots, want 3", len(seen))
	}
	if seen[1].Percent() != 50 {
		t.Errorf("mid snapshot percent = %d, want 50", seen[1].Percent())
	}
}

func TestWatchReportsFailureInSnapshot(t *testing.T) {
	seq := &sequenceServer{statuses: []Status{
		{State: StateFailed, Error: "bad CSV header"},
	}}
	server := httptest.NewServer(http.HandlerFunc(seq.handler))
	defer server.Close()

	p := NewPoller(server.URL, 10*time.Millisecond, time.Second)

	final, err := p.Watch(context.Background(), "job-2", nil)
	if err != nil {
		t.Fatalf("Watch() error = %v, failed uploads are not transport errors", err)
	}
	if final.State != StateFailed || final.Error != "bad CSV header" {
		t.Errorf("final = %+v, want failed with the server's message", final)
	}
}

func TestWatchCancellation(t *testing.T) {
	seq := &sequenceServer{statuses: []Status{
		{State: StateProcessing, Processed: 1, Total: 100},
	}}
	server := httptest.NewServer(http.HandlerFunc(seq.handler))
	defer server.Close()

	p := NewPoller(server.URL, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := p.Watch(ctx, "job-3", nil)
	if err != context.Canceled {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
}

func TestWatchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	p := NewPoller(server.URL, 10*time.Millisecond, time.Second)
	if _, err := p.Watch(context.Background(), "job-4", nil); err == nil {
		t.Error("Watch() should surface HTTP errors")
	}
}

func TestStatusPercent(t *testing.T) {
	if got := (Status{Processed: 3, Total: 0}).Percent(); got != 0 {
		t.Errorf("Percent() with unknown total = %d, want 0", got)
	}
	if got := (Status{Processed: 1, Total: 3}).Percent(); got != 33 {
		t.Errorf("Percent() = %d, want 33", got)
	}
}
