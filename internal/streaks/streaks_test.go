package streaks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculateConsecutiveRunEndingToday(t *testing.T) {
	got := Calculate([]string{"2024-01-03", "2024-01-02", "2024-01-01"}, day("2024-01-03"))
	assert.Equal(t, submissionmodels.StreakSnapshot{
		CurrentStreak:      3,
		LongestStreak:      3,
		LastCompletionDate: "2024-01-03",
		TotalDays:          3,
	}, got)
}

func TestCalculateStreakSurvivesOneDayGrace(t *testing.T) {
	// Most recent submission was yesterday: the streak is still alive.
	got := Calculate([]string{"2024-01-02", "2024-01-01"}, day("2024-01-03"))
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.LongestStreak)
}

func TestCalculateStaleHistoryHasNoCurrentStreak(t *testing.T) {
	got := Calculate([]string{"2024-01-01"}, day("2024-01-05"))
	assert.Equal(t, 0, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	assert.Equal(t, "2024-01-01", got.LastCompletionDate)
	assert.Equal(t, 1, got.TotalDays)
}

func TestCalculateGapBreaksCurrentButNotLongest(t *testing.T) {
	got := Calculate([]string{
		"2024-01-10",
		"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-02",
	}, day("2024-01-10"))
	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
	assert.Equal(t, 5, got.TotalDays)
}

func TestCalculateEmptyHistory(t *testing.T) {
	got := Calculate(nil, day("2024-01-03"))
	assert.Equal(t, submissionmodels.StreakSnapshot{}, got)
}

func TestCalculateSkipsMalformedDates(t *testing.T) {
	got := Calculate([]string{"2024-01-03", "not-a-date", "2024-01-02"}, day("2024-01-03"))
	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 2, got.TotalDays)
}

type stubDates struct {
	dates []string
}

func (s stubDates) DistinctDates(ctx context.Context, userID string) ([]string, error) {
	return s.dates, nil
}

func TestServiceRecompute(t *testing.T) {
	svc := NewService(stubDates{dates: []string{"2024-01-03", "2024-01-02"}}, zap.NewNop().Sugar())
	svc.now = func() time.Time { return day("2024-01-03") }

	snapshot, err := svc.Recompute(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.CurrentStreak)
	assert.Equal(t, "2024-01-03", snapshot.LastCompletionDate)
}
