package prompts

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

// DefaultRotationWindowDays is the trailing window during which a
// subject counts as recently used.
const DefaultRotationWindowDays = 14

// PromptStore is the durable prompt storage the engine generates into.
// UpsertDaily must be atomic on (user, dateKey, daily): under a race the
// store decides the winner and every caller gets that same row back.
type PromptStore interface {
	GetDaily(ctx context.Context, userID, dateKey string) (*promptmodels.Prompt, error)
	UpsertDaily(ctx context.Context, p *promptmodels.Prompt) (*promptmodels.Prompt, error)
	InsertManual(ctx context.Context, p *promptmodels.Prompt) (*promptmodels.Prompt, error)
	RecentSubjects(ctx context.Context, userID string, since time.Time) (map[string]bool, error)
}

// PreferenceStore reads the onboarding record. Returns ErrNotOnboarded
// when the user has none.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*promptmodels.UserPreferences, error)
}

// Engine orchestrates eligibility filtering, randomized selection and
// text assembly. Randomness is owned explicitly so tests can seed it.
type Engine struct {
	store      PromptStore
	prefs      PreferenceStore
	logger     *zap.SugaredLogger
	windowDays int

	randMu sync.Mutex
	rng    *rand.Rand

	now func() time.Time
}

func NewEngine(store PromptStore, prefs PreferenceStore, logger *zap.SugaredLogger, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		store:      store,
		prefs:      prefs,
		logger:     logger,
		windowDays: DefaultRotationWindowDays,
		rng:        rng,
		now:        time.Now,
	}
}

// sortedUnique returns the distinct values of in, sorted so a seeded
// random pick is reproducible.
func sortedUnique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// DateKey formats t as the UTC calendar date used to key daily prompts.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// GetOrCreateDaily returns the user's daily prompt for today, creating
// it if absent. An existing row is returned untouched, never
// regenerated. Under concurrent calls the store's atomic upsert picks a
// single winner and this call returns that winner even when it is not
// the row this call's randomness produced.
func (e *Engine) GetOrCreateDaily(ctx context.Context, userID string) (*promptmodels.Prompt, error) {
	dateKey := DateKey(e.now())

	existing, err := e.store.GetDaily(ctx, userID, dateKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up daily prompt: %w", err)
	}

	candidate, err := e.generate(ctx, userID, promptmodels.KindDaily, dateKey)
	if err != nil {
		return nil, err
	}

	winner, err := e.store.UpsertDaily(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily prompt: %w", err)
	}
	if winner.ID != candidate.ID {
		e.logger.Infow("daily prompt race resolved to existing row",
			"user_id", userID, "date_key", dateKey, "winner_id", winner.ID)
	}
	return winner, nil
}

// CreateManual generates and inserts an on-demand prompt. Manual prompts
// are unbounded per day and never subject to the daily idempotence rule.
func (e *Engine) CreateManual(ctx context.Context, userID string) (*promptmodels.Prompt, error) {
	candidate, err := e.generate(ctx, userID, promptmodels.KindManual, DateKey(e.now()))
	if err != nil {
		return nil, err
	}
	created, err := e.store.InsertManual(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert manual prompt: %w", err)
	}
	return created, nil
}

func (e *Engine) generate(ctx context.Context, userID string, kind promptmodels.PromptKind, dateKey string) (*promptmodels.Prompt, error) {
	prefs, err := e.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	since := e.now().AddDate(0, 0, -e.windowDays)
	recent, err := e.store.RecentSubjects(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent subjects: %w", err)
	}

	eligible, err := EligibleSubjects(prefs.Subjects, prefs.Exclusions, recent)
	if err != nil {
		return nil, err
	}
	if len(prefs.ArtMediums) == 0 {
		return nil, ErrNotOnboarded
	}

	e.randMu.Lock()
	defer e.randMu.Unlock()

	// Preference slices may carry duplicates; the pick stays uniform
	// over distinct values.
	mediums := sortedUnique(prefs.ArtMediums)
	medium := mediums[e.rng.Intn(len(mediums))]
	subject := eligible[e.rng.Intn(len(eligible))]

	params := ParamsFor(prefs.Difficulty)

	var paletteID string
	if len(prefs.ColorPalettes) > 0 && e.rng.Float64() < params.ColorRuleChance {
		palettes := sortedUnique(prefs.ColorPalettes)
		paletteID = palettes[e.rng.Intn(len(palettes))]
	}

	var twist string
	if e.rng.Float64() < params.TwistChance {
		if compatible := TwistsForMedium(medium); len(compatible) > 0 {
			twist = compatible[e.rng.Intn(len(compatible))].Text
		}
	}

	return &promptmodels.Prompt{
		ID:         uuid.New().String(),
		UserID:     userID,
		DateKey:    dateKey,
		Kind:       kind,
		Medium:     medium,
		Subject:    subject,
		ColorRule:  paletteID,
		Twist:      twist,
		PromptText: AssembleText(e.rng, medium, subject, prefs.Difficulty, paletteID, twist),
		CreatedAt:  e.now().UTC(),
	}, nil
}
