package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

const (
	// MaxRetry is how many failed replays an item survives before it
	// is dropped.
	MaxRetry = 3
	// ExpiryDays is the age past which an item is purged regardless of
	// its retry count.
	ExpiryDays = 7
)

// SubmitFunc attempts to deliver one queued submission. A nil error
// removes the item from the queue.
type SubmitFunc func(ctx context.Context, item submissionmodels.QueuedSubmission) error

// ReplayResult reports one ReplayAll pass. Failed counts items dropped
// at the retry cap, not items kept for a later pass.
type ReplayResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Stats is the aggregate signal for dropped work; per-item drop is
// never surfaced to the original submitter.
type Stats struct {
	Pending       int `json:"pending"`
	Replayed      int `json:"replayed"`
	DroppedRetry  int `json:"droppedRetry"`
	DroppedExpiry int `json:"droppedExpiry"`
}

// Queue is the durable store of pending submissions. All mutation goes
// through a whole-snapshot read-modify-write under one mutex, so a
// background replay and a foreground enqueue can never lose each
// other's updates.
type Queue struct {
	mu      sync.Mutex
	storage Storage
	logger  *zap.SugaredLogger
	now     func() time.Time

	replayed      int
	droppedRetry  int
	droppedExpiry int
}

func New(storage Storage, logger *zap.SugaredLogger) *Queue {
	return &Queue{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

func (q *Queue) load(ctx context.Context) ([]submissionmodels.QueuedSubmission, error) {
	data, err := q.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load submission queue: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var items []submissionmodels.QueuedSubmission
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode submission queue: %w", err)
	}
	return items, nil
}

func (q *Queue) save(ctx context.Context, items []submissionmodels.QueuedSubmission) error {
	if items == nil {
		items = []submissionmodels.QueuedSubmission{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode submission queue: %w", err)
	}
	if err := q.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save submission queue: %w", err)
	}
	return nil
}

// Enqueue appends a pending submission and returns its queue ID. It
// touches only local durable storage, never the network.
func (q *Queue) Enqueue(ctx context.Context, userID string, payload submissionmodels.QueuedPayload) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load(ctx)
	if err != nil {
		return "", err
	}

	item := submissionmodels.QueuedSubmission{
		ID:         uuid.New().String(),
		UserID:     userID,
		Payload:    payload,
		EnqueuedAt: q.now().UTC(),
		RetryCount: 0,
	}
	items = append(items, item)

	if err := q.save(ctx, items); err != nil {
		return "", err
	}
	q.logger.Infow("submission queued for later replay",
		"queue_id", item.ID, "user_id", userID, "pending", len(items))
	return item.ID, nil
}

// ReplayAll fires submit for every queued item concurrently and settles
// each independently: success removes the item, failure increments its
// retry count, and an item that reaches MaxRetry is dropped and counted
// as failed. The whole pass is one read-modify-write cycle, so enqueues
// block until the pass settles rather than being lost.
func (q *Queue) ReplayAll(ctx context.Context, submit SubmitFunc) (ReplayResult, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load(ctx)
	if err != nil {
		return ReplayResult{}, err
	}
	if len(items) == 0 {
		return ReplayResult{}, nil
	}

	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = submit(ctx, items[i])
		}(i)
	}
	wg.Wait()

	var result ReplayResult
	var remaining []submissionmodels.QueuedSubmission
	for i, item := range items {
		if errs[i] == nil {
			result.Succeeded++
			q.replayed++
			continue
		}
		item.RetryCount++
		if item.RetryCount >= MaxRetry {
			result.Failed++
			q.droppedRetry++
			q.logger.Warnw("queued submission dropped after retry cap",
				"queue_id", item.ID, "user_id", item.UserID, "retry_count", item.RetryCount)
			continue
		}
		q.logger.Infow("queued submission replay failed, keeping for next pass",
			"queue_id", item.ID, "user_id", item.UserID, "retry_count", item.RetryCount, "error", errs[i])
		remaining = append(remaining, item)
	}

	if err := q.save(ctx, remaining); err != nil {
		return result, err
	}
	return result, nil
}

// PurgeExpired drops items older than ExpiryDays regardless of retry
// state. Called opportunistically at startup and from the maintenance
// cron.
func (q *Queue) PurgeExpired(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	cutoff := q.now().UTC().AddDate(0, 0, -ExpiryDays)
	var remaining []submissionmodels.QueuedSubmission
	removed := 0
	for _, item := range items {
		if item.EnqueuedAt.Before(cutoff) {
			removed++
			q.droppedExpiry++
			q.logger.Warnw("queued submission expired",
				"queue_id", item.ID, "user_id", item.UserID, "enqueued_at", item.EnqueuedAt)
			continue
		}
		remaining = append(remaining, item)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := q.save(ctx, remaining); err != nil {
		return removed, err
	}
	return removed, nil
}

// Stats returns the current pending length plus lifetime counters.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.load(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Pending:       len(items),
		Replayed:      q.replayed,
		DroppedRetry:  q.droppedRetry,
		DroppedExpiry: q.droppedExpiry,
	}, nil
}
