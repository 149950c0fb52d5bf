package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	submissionmodels "io.winapps.sparkbrush/internal/models/submission"
)

// ResponseStore durably persists submissions and serves the distinct
// local dates streak math runs over.
type ResponseStore interface {
	InsertResponse(ctx context.Context, r *submissionmodels.Response) error
	DistinctDates(ctx context.Context, userID string) ([]string, error)
}

// PostgresResponseStore writes a response plus its image rows in one
// transaction, the same shape as any multi-row entry insert.
type PostgresResponseStore struct {
	pool *pgxpool.Pool
}

func NewPostgresResponseStore(pool *pgxpool.Pool) *PostgresResponseStore {
	return &PostgresResponseStore{pool: pool}
}

func (s *PostgresResponseStore) InsertResponse(ctx context.Context, r *submissionmodels.Response) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	// Replays reuse the queue item ID as the response ID, so a replay
	// of an already-landed submission must be a no-op, not an error.
	responseQuery := `
		INSERT INTO responses (id, user_uid, prompt_id, notes, tags, local_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, responseQuery, r.ID, r.UserID, r.PromptID, r.Notes, r.Tags, r.LocalDate, now); err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}

	for i, url := range r.ImageURLs {
		imageQuery := `
			INSERT INTO response_images (response_id, url, upload_order, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (response_id, upload_order) DO NOTHING
		`
		if _, err := tx.Exec(ctx, imageQuery, r.ID, url, i, now); err != nil {
			return fmt.Errorf("failed to insert response image: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit response: %w", err)
	}
	r.CreatedAt = now
	return nil
}

// DistinctDates returns the user's submission dates newest first.
func (s *PostgresResponseStore) DistinctDates(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT local_date FROM responses
		WHERE user_uid = $1
		ORDER BY local_date DESC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan submission date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
