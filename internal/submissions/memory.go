package submissions

import (
	"context"
	"sort"
	"sync"
	"time"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

// MemoryResponseStore implements ResponseStore in memory for the
// simulated environment and tests. Inserts are idempotent by response
// ID, the same contract the Postgres ON CONFLICT gives replays.
type MemoryResponseStore struct {
	mu        sync.Mutex
	responses map[string]*submissionmodels.Response
}

func NewMemoryResponseStore() *MemoryResponseStore {
	return &MemoryResponseStore{responses: make(map[string]*submissionmodels.Response)}
}

func (s *MemoryResponseStore) InsertResponse(ctx context.Context, r *submissionmodels.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.responses[r.ID]; exists {
		return nil
	}
	cp := *r
	cp.CreatedAt = time.Now().UTC()
	s.responses[r.ID] = &cp
	return nil
}

func (s *MemoryResponseStore) DistinctDates(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	for _, r := range s.responses {
		if r.UserID == userID {
			seen[r.LocalDate] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// Count reports how many responses a user has persisted.
func (s *MemoryResponseStore) Count(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.responses {
		if r.UserID == userID {
			n++
		}
	}
	return n
}
