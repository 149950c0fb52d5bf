package prompts

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

func testPrefs(userID string) *promptmodels.UserPreferences {
	return &promptmodels.UserPreferences{
		UserID:        userID,
		ArtMediums:    []string{"watercolor", "ink"},
		Subjects:      []string{"landscape", "animals", "still_life"},
		ColorPalettes: []string{"warm", "cool"},
		Difficulty:    TierIntermediate,
	}
}

func newTestEngine(t *testing.T, seed int64) (*Engine, *MemoryPromptStore, *MemoryPreferenceStore) {
	t.Helper()
	store := NewMemoryPromptStore()
	prefs := NewMemoryPreferenceStore()
	engine := NewEngine(store, prefs, zap.NewNop().Sugar(), rand.New(rand.NewSource(seed)))
	return engine, store, prefs
}

func TestGetOrCreateDailyIdempotentWithinDay(t *testing.T) {
	engine, _, prefs := newTestEngine(t, 1)
	prefs.Put(testPrefs("user-1"))

	first, err := engine.GetOrCreateDaily(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := engine.GetOrCreateDaily(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PromptText, second.PromptText)
	assert.Equal(t, promptmodels.KindDaily, first.Kind)
}

func TestGetOrCreateDailyNeverMutatesExistingRow(t *testing.T) {
	engine, store, prefs := newTestEngine(t, 1)
	prefs.Put(testPrefs("user-1"))

	existing := &promptmodels.Prompt{
		ID:         "pre-existing",
		UserID:     "user-1",
		DateKey:    DateKey(time.Now()),
		Kind:       promptmodels.KindDaily,
		Medium:     "ink",
		Subject:    "animals",
		PromptText: "Make an ink study of an animal.",
		CreatedAt:  time.Now().UTC(),
	}
	_, err := store.UpsertDaily(context.Background(), existing)
	require.NoError(t, err)

	got, err := engine.GetOrCreateDaily(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "pre-existing", got.ID)
	assert.Equal(t, existing.PromptText, got.PromptText)
}

func TestGetOrCreateDailyConcurrentCallersConverge(t *testing.T) {
	engine, store, prefs := newTestEngine(t, 2)
	prefs.Put(testPrefs("user-1"))

	const callers = 8
	results := make([]*promptmodels.Prompt, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.GetOrCreateDaily(context.Background(), "user-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < callers; i++ {
		assert.Equal(t, results[0].ID, results[i].ID)
		assert.Equal(t, results[0].PromptText, results[i].PromptText)
	}

	rows, err := store.ListRecent(context.Background(), "user-1", 100, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCreateManualUnboundedPerDay(t *testing.T) {
	engine, store, prefs := newTestEngine(t, 3)
	prefs.Put(testPrefs("user-1"))

	first, err := engine.CreateManual(context.Background(), "user-1")
	require.NoError(t, err)
	second, err := engine.CreateManual(context.Background(), "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, promptmodels.KindManual, first.Kind)

	rows, err := store.ListRecent(context.Background(), "user-1", 100, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGenerateSignalsNotOnboarded(t *testing.T) {
	engine, _, _ := newTestEngine(t, 4)

	_, err := engine.GetOrCreateDaily(context.Background(), "stranger")
	assert.ErrorIs(t, err, ErrNotOnboarded)
}

func TestGenerateSignalsNoEligibleSubjects(t *testing.T) {
	engine, _, prefs := newTestEngine(t, 5)
	prefs.Put(&promptmodels.UserPreferences{
		UserID:     "user-1",
		ArtMediums: []string{"watercolor"},
		Subjects:   []string{"landscape"},
		Exclusions: []string{"landscape"},
		Difficulty: TierNovice,
	})

	_, err := engine.GetOrCreateDaily(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoEligibleSubjects)
}

func TestGenerateNeverPicksExcludedSubject(t *testing.T) {
	engine, _, prefs := newTestEngine(t, 6)
	prefs.Put(&promptmodels.UserPreferences{
		UserID:     "user-1",
		ArtMediums: []string{"ink"},
		Subjects:   []string{"landscape", "animals", "fantasy"},
		Exclusions: []string{"fantasy"},
		Difficulty: TierExpert,
	})

	for i := 0; i < 50; i++ {
		p, err := engine.CreateManual(context.Background(), "user-1")
		require.NoError(t, err)
		assert.NotEqual(t, "fantasy", p.Subject)
	}
}

func TestGenerateRotatesAwayFromRecentSubjects(t *testing.T) {
	engine, store, prefs := newTestEngine(t, 7)
	prefs.Put(testPrefs("user-1"))

	// Mark two of the three subjects as recently used.
	for _, subject := range []string{"landscape", "animals"} {
		_, err := store.InsertManual(context.Background(), &promptmodels.Prompt{
			ID:         "seed-" + subject,
			UserID:     "user-1",
			DateKey:    DateKey(time.Now()),
			Kind:       promptmodels.KindManual,
			Medium:     "ink",
			Subject:    subject,
			PromptText: "seed.",
			CreatedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	p, err := engine.GetOrCreateDaily(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "still_life", p.Subject)
}

func TestGenerateDuplicateMediumsDoNotBiasSelection(t *testing.T) {
	engine, _, prefs := newTestEngine(t, 9)
	prefs.Put(&promptmodels.UserPreferences{
		UserID: "user-1",
		ArtMediums: []string{
			"ink", "ink", "ink", "ink", "ink",
			"ink", "ink", "ink", "ink", "watercolor",
		},
		Subjects:   []string{"landscape"},
		Difficulty: TierIntermediate,
	})

	counts := map[string]int{}
	for i := 0; i < 40; i++ {
		p, err := engine.CreateManual(context.Background(), "user-1")
		require.NoError(t, err)
		counts[p.Medium]++
	}

	// A uniform draw over the two distinct mediums lands each well
	// clear of the ~10% a raw draw over the duplicated slice would
	// give watercolor.
	assert.Greater(t, counts["watercolor"], 8)
	assert.Greater(t, counts["ink"], 8)
}

func TestGenerateSkipsColorRuleWithoutPalettes(t *testing.T) {
	engine, _, prefs := newTestEngine(t, 8)
	prefs.Put(&promptmodels.UserPreferences{
		UserID:     "user-1",
		ArtMediums: []string{"watercolor"},
		Subjects:   []string{"landscape"},
		Difficulty: TierExpert, // highest color-rule chance
	})

	for i := 0; i < 50; i++ {
		p, err := engine.CreateManual(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Empty(t, p.ColorRule)
	}
}
