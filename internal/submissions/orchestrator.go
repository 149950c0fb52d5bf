package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
	"io.winapps.sparkbrush/internal/queue"
)

// Connectivity reports the last observed backend state. queue.Monitor
// satisfies it.
type Connectivity interface {
	Online() bool
}

// StreakRecomputer recomputes a user's streaks from source-of-truth
// dates after a submission lands.
type StreakRecomputer interface {
	Recompute(ctx context.Context, userID string) (*submissionmodels.StreakSnapshot, error)
}

const (
	StatusPersisted = "persisted"
	StatusQueued    = "queued"
)

// Result reports how a submission settled. Queued submissions carry the
// queue ID; persisted ones carry the response ID and final image URLs.
type Result struct {
	Status    string   `json:"status"`
	ID        string   `json:"id"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

// Orchestrator runs the submission state machine: validate, then an
// eager online attempt, and on any failure the durable queue. There is
// exactly one failure-recovery mechanism; a transient server error and
// a fully-offline submission take the same path.
type Orchestrator struct {
	conn    Connectivity
	images  ImageTransfer
	store   ResponseStore
	queue   *queue.Queue
	streaks StreakRecomputer
	logger  *zap.SugaredLogger

	// attemptTimeout bounds each online attempt so a stalled request
	// degrades to the queue instead of hanging.
	attemptTimeout time.Duration
	now            func() time.Time
}

func NewOrchestrator(conn Connectivity, images ImageTransfer, store ResponseStore, q *queue.Queue, streaks StreakRecomputer, logger *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		conn:           conn,
		images:         images,
		store:          store,
		queue:          q,
		streaks:        streaks,
		logger:         logger,
		attemptTimeout: 15 * time.Second,
		now:            time.Now,
	}
}

// Submit accepts a candidate payload. A validation failure is terminal
// and returned to the caller; every other failure mode resolves to
// either a persisted response or a queued submission, never a hard
// error for the end user.
func (o *Orchestrator) Submit(ctx context.Context, userID string, payload submissionmodels.Payload) (*Result, error) {
	if verr := Validate(payload); verr != nil {
		return nil, verr
	}

	submissionID := uuid.New().String()
	localDate := payload.LocalDate
	if localDate == "" {
		localDate = o.now().UTC().Format("2006-01-02")
	}

	// Stage image bytes locally first: the queue carries refs, never
	// inlined image data.
	refs := make([]string, 0, len(payload.Images))
	for i, img := range payload.Images {
		ref, err := o.images.Stage(userID, submissionID, i, img)
		if err != nil {
			return nil, fmt.Errorf("failed to stage image %d: %w", i, err)
		}
		refs = append(refs, ref)
	}

	queued := submissionmodels.QueuedPayload{
		PromptID:  payload.PromptID,
		ImageRefs: refs,
		Notes:     payload.Notes,
		Tags:      payload.Tags,
		LocalDate: localDate,
	}

	if !o.conn.Online() {
		return o.enqueue(ctx, userID, queued)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	urls, err := o.persist(attemptCtx, userID, submissionID, queued)
	cancel()
	if err != nil {
		o.logger.Warnw("online submission attempt failed, queueing",
			"user_id", userID, "submission_id", submissionID, "error", err)
		return o.enqueue(ctx, userID, queued)
	}

	o.recomputeStreaks(ctx, userID)
	return &Result{Status: StatusPersisted, ID: submissionID, ImageURLs: urls}, nil
}

// ReplayItem is the queue's SubmitFunc: it persists one queued
// submission. The queue item ID doubles as the response ID so a replay
// that raced an earlier partially-observed success stays idempotent.
func (o *Orchestrator) ReplayItem(ctx context.Context, item submissionmodels.QueuedSubmission) error {
	attemptCtx, cancel := context.WithTimeout(ctx, o.attemptTimeout)
	defer cancel()

	if _, err := o.persist(attemptCtx, item.UserID, item.ID, item.Payload); err != nil {
		return err
	}
	o.recomputeStreaks(ctx, item.UserID)
	return nil
}

func (o *Orchestrator) enqueue(ctx context.Context, userID string, payload submissionmodels.QueuedPayload) (*Result, error) {
	queueID, err := o.queue.Enqueue(ctx, userID, payload)
	if err != nil {
		// Losing the durable queue as well is the one unrecoverable
		// case; surface it.
		return nil, fmt.Errorf("failed to queue submission: %w", err)
	}
	return &Result{Status: StatusQueued, ID: queueID}, nil
}

func (o *Orchestrator) persist(ctx context.Context, userID, submissionID string, payload submissionmodels.QueuedPayload) ([]string, error) {
	urls := make([]string, 0, len(payload.ImageRefs))
	for i, ref := range payload.ImageRefs {
		url, err := o.images.CompressAndUpload(ctx, ref, userID, submissionID, i)
		if err != nil {
			return nil, fmt.Errorf("failed to upload image %d: %w", i, err)
		}
		urls = append(urls, url)
	}

	response := &submissionmodels.Response{
		ID:        submissionID,
		UserID:    userID,
		PromptID:  payload.PromptID,
		ImageURLs: urls,
		Notes:     payload.Notes,
		Tags:      payload.Tags,
		LocalDate: payload.LocalDate,
	}
	if err := o.store.InsertResponse(ctx, response); err != nil {
		return nil, err
	}
	return urls, nil
}

func (o *Orchestrator) recomputeStreaks(ctx context.Context, userID string) {
	if o.streaks == nil {
		return
	}
	if _, err := o.streaks.Recompute(ctx, userID); err != nil {
		o.logger.Warnw("streak recompute failed", "user_id", userID, "error", err)
	}
}
