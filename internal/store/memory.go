package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-panel/internal/weather"
)

var (
	// ErrNotFound is returned before the first status has been published.
	ErrNotFound = errors.New("no panel status published yet")
)

// Status is what the panel last put on screen.
type Status struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Weather    weather.View     `json:"weather"`
	Lines      []string         `json:"lines"`
	RenderedAt time.Time        `json:"renderedAt"`
	Snapshot   weather.Snapshot `json:"-"`
}

// MemoryStore is a concurrency-safe holder of the last published status.
// The loop writes it; API handlers read it.
type MemoryStore struct {
	mu sync.RWMutex

	latest *Status
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Publish replaces the stored status.
func (s *MemoryStore) Publish(status Status) {
	lines := make([]string, len(status.Lines))
	copy(lines, status.Lines)
	status.Lines = lines

	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &status
}

// GetLatest returns the most recent status.
func (s *MemoryStore) GetLatest() (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return Status{}, ErrNotFound
	}
	return *s.latest, nil
}
