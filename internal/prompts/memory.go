package prompts

import (
	"context"
	"sort"
	"sync"
	"time"

	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

// MemoryPromptStore implements PromptStore and prompt history listing
// in memory, for the simulated environment and tests. Upsert atomicity
// comes from the store mutex, matching the contract the Postgres
// partial unique index provides in live mode.
type MemoryPromptStore struct {
	mu      sync.Mutex
	prompts []*promptmodels.Prompt
}

func NewMemoryPromptStore() *MemoryPromptStore {
	return &MemoryPromptStore{}
}

func (s *MemoryPromptStore) GetDaily(ctx context.Context, userID, dateKey string) (*promptmodels.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prompts {
		if p.UserID == userID && p.DateKey == dateKey && p.Kind == promptmodels.KindDaily {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryPromptStore) UpsertDaily(ctx context.Context, candidate *promptmodels.Prompt) (*promptmodels.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.prompts {
		if p.UserID == candidate.UserID && p.DateKey == candidate.DateKey && p.Kind == promptmodels.KindDaily {
			cp := *p
			return &cp, nil
		}
	}
	cp := *candidate
	s.prompts = append(s.prompts, &cp)
	out := cp
	return &out, nil
}

func (s *MemoryPromptStore) InsertManual(ctx context.Context, candidate *promptmodels.Prompt) (*promptmodels.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *candidate
	s.prompts = append(s.prompts, &cp)
	out := cp
	return &out, nil
}

func (s *MemoryPromptStore) RecentSubjects(ctx context.Context, userID string, since time.Time) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := make(map[string]bool)
	for _, p := range s.prompts {
		if p.UserID == userID && p.CreatedAt.After(since) {
			recent[p.Subject] = true
		}
	}
	return recent, nil
}

func (s *MemoryPromptStore) ListRecent(ctx context.Context, userID string, limit, offset int) ([]*promptmodels.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var mine []*promptmodels.Prompt
	for _, p := range s.prompts {
		if p.UserID == userID {
			cp := *p
			mine = append(mine, &cp)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	if offset >= len(mine) {
		return nil, nil
	}
	mine = mine[offset:]
	if limit < len(mine) {
		mine = mine[:limit]
	}
	return mine, nil
}

// MemoryPreferenceStore holds preference records in memory for the
// simulated environment and tests.
type MemoryPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]*promptmodels.UserPreferences
}

func NewMemoryPreferenceStore() *MemoryPreferenceStore {
	return &MemoryPreferenceStore{prefs: make(map[string]*promptmodels.UserPreferences)}
}

func (s *MemoryPreferenceStore) Get(ctx context.Context, userID string) (*promptmodels.UserPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, ErrNotOnboarded
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryPreferenceStore) Put(prefs *promptmodels.UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *prefs
	s.prefs[prefs.UserID] = &cp
}
