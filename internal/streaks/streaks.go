package streaks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

const dateLayout = "2006-01-02"

// Calculate derives a streak snapshot from the distinct local calendar
// dates with at least one persisted submission, sorted newest first.
// It is pure: today is passed in, and the whole history is walked every
// time so backfills and deletions stay correct.
func Calculate(datesDesc []string, today time.Time) submissionmodels.StreakSnapshot {
	if len(datesDesc) == 0 {
		return submissionmodels.StreakSnapshot{}
	}

	parsed := make([]time.Time, 0, len(datesDesc))
	for _, d := range datesDesc {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return submissionmodels.StreakSnapshot{}
	}

	snapshot := submissionmodels.StreakSnapshot{
		LastCompletionDate: parsed[0].Format(dateLayout),
		TotalDays:          len(parsed),
	}

	// Current streak counts only if the most recent date is today or
	// yesterday, then extends backward through exactly-consecutive days.
	todayDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	gap := int(todayDate.Sub(parsed[0]).Hours() / 24)
	if gap == 0 || gap == 1 {
		snapshot.CurrentStreak = 1
		for i := 1; i < len(parsed); i++ {
			if dayGap(parsed[i], parsed[i-1]) != 1 {
				break
			}
			snapshot.CurrentStreak++
		}
	}

	// Longest run anywhere in history, floor-bounded by the current
	// streak.
	longest, run := 1, 1
	for i := 1; i < len(parsed); i++ {
		if dayGap(parsed[i], parsed[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if snapshot.CurrentStreak > longest {
		longest = snapshot.CurrentStreak
	}
	snapshot.LongestStreak = longest

	return snapshot
}

func dayGap(older, newer time.Time) int {
	return int(newer.Sub(older).Hours() / 24)
}

// DatesSource provides the distinct submission dates, newest first.
type DatesSource interface {
	DistinctDates(ctx context.Context, userID string) ([]string, error)
}

// Service recomputes snapshots on demand from the source-of-truth
// dates.
type Service struct {
	dates  DatesSource
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewService(dates DatesSource, logger *zap.SugaredLogger) *Service {
	return &Service{dates: dates, logger: logger, now: time.Now}
}

func (s *Service) Recompute(ctx context.Context, userID string) (*submissionmodels.StreakSnapshot, error) {
	dates, err := s.dates.DistinctDates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission dates: %w", err)
	}
	snapshot := Calculate(dates, s.now())
	return &snapshot, nil
}
