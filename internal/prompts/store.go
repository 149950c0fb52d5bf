package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

// PostgresPromptStore implements PromptStore on the prompts table. The
// daily uniqueness rests on a partial unique index over
// (user_uid, date_key) WHERE kind = 'daily'.
type PostgresPromptStore struct {
	pool *pgxpool.Pool
}

func NewPostgresPromptStore(pool *pgxpool.Pool) *PostgresPromptStore {
	return &PostgresPromptStore{pool: pool}
}

const promptColumns = `id, user_uid, date_key, kind, medium, subject, COALESCE(color_rule, ''), COALESCE(twist, ''), prompt_text, created_at`

func scanPrompt(row pgx.Row) (*promptmodels.Prompt, error) {
	var p promptmodels.Prompt
	err := row.Scan(&p.ID, &p.UserID, &p.DateKey, &p.Kind, &p.Medium, &p.Subject, &p.ColorRule, &p.Twist, &p.PromptText, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresPromptStore) GetDaily(ctx context.Context, userID, dateKey string) (*promptmodels.Prompt, error) {
	query := `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE user_uid = $1 AND date_key = $2 AND kind = 'daily'
	`
	p, err := scanPrompt(s.pool.QueryRow(ctx, query, userID, dateKey))
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prompt: %w", err)
	}
	return p, nil
}

// UpsertDaily inserts the candidate row; if another caller won the race
// for (user, dateKey, daily), the no-op DO UPDATE makes Postgres return
// the existing row instead, so every racer converges on one prompt.
func (s *PostgresPromptStore) UpsertDaily(ctx context.Context, p *promptmodels.Prompt) (*promptmodels.Prompt, error) {
	query := `
		INSERT INTO prompts (id, user_uid, date_key, kind, medium, subject, color_rule, twist, prompt_text, created_at)
		VALUES ($1, $2, $3, 'daily', $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		ON CONFLICT (user_uid, date_key) WHERE kind = 'daily'
		DO UPDATE SET prompt_text = prompts.prompt_text
		RETURNING ` + promptColumns + `
	`
	winner, err := scanPrompt(s.pool.QueryRow(ctx, query,
		p.ID, p.UserID, p.DateKey, p.Medium, p.Subject, p.ColorRule, p.Twist, p.PromptText, p.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily prompt: %w", err)
	}
	return winner, nil
}

func (s *PostgresPromptStore) InsertManual(ctx context.Context, p *promptmodels.Prompt) (*promptmodels.Prompt, error) {
	query := `
		INSERT INTO prompts (id, user_uid, date_key, kind, medium, subject, color_rule, twist, prompt_text, created_at)
		VALUES ($1, $2, $3, 'manual', $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9)
		RETURNING ` + promptColumns + `
	`
	created, err := scanPrompt(s.pool.QueryRow(ctx, query,
		p.ID, p.UserID, p.DateKey, p.Medium, p.Subject, p.ColorRule, p.Twist, p.PromptText, p.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert manual prompt: %w", err)
	}
	return created, nil
}

func (s *PostgresPromptStore) RecentSubjects(ctx context.Context, userID string, since time.Time) (map[string]bool, error) {
	query := `
		SELECT DISTINCT subject FROM prompts
		WHERE user_uid = $1 AND created_at > $2
	`
	rows, err := s.pool.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent subjects: %w", err)
	}
	defer rows.Close()

	recent := make(map[string]bool)
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, fmt.Errorf("failed to scan recent subject: %w", err)
		}
		recent[subject] = true
	}
	return recent, rows.Err()
}

// ListRecent returns the user's newest prompts for the history endpoint.
func (s *PostgresPromptStore) ListRecent(ctx context.Context, userID string, limit, offset int) ([]*promptmodels.Prompt, error) {
	query := `
		SELECT ` + promptColumns + `
		FROM prompts
		WHERE user_uid = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompt history: %w", err)
	}
	defer rows.Close()

	var prompts []*promptmodels.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}
