package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	promptmodels "io.winapps.sparkbrush/internal/models/prompt"
)

// PostgresPreferenceStore reads user preferences with a Redis
// cache-aside. Preferences are edited elsewhere; this store only reads,
// so the cache tolerates the 24h TTL.
type PostgresPreferenceStore struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

func NewPostgresPreferenceStore(pool *pgxpool.Pool, redisClient *redis.Client) *PostgresPreferenceStore {
	return &PostgresPreferenceStore{pool: pool, redis: redisClient}
}

func prefsCacheKey(userID string) string {
	return fmt.Sprintf("prefs:%s", userID)
}

func (s *PostgresPreferenceStore) Get(ctx context.Context, userID string) (*promptmodels.UserPreferences, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, prefsCacheKey(userID)).Result()
		if err == nil {
			var prefs promptmodels.UserPreferences
			if err := json.Unmarshal([]byte(cached), &prefs); err == nil {
				return &prefs, nil
			}
		}
	}

	query := `
		SELECT uid, art_mediums, subjects, color_palettes, exclusions, difficulty, created_at, updated_at
		FROM user_preferences
		WHERE uid = $1
	`
	var prefs promptmodels.UserPreferences
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.ArtMediums,
		&prefs.Subjects,
		&prefs.ColorPalettes,
		&prefs.Exclusions,
		&prefs.Difficulty,
		&prefs.CreatedAt,
		&prefs.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, ErrNotOnboarded
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}

	if s.redis != nil {
		if prefsJSON, err := json.Marshal(&prefs); err == nil {
			s.redis.Set(ctx, prefsCacheKey(userID), prefsJSON, 24*time.Hour)
		}
	}
	return &prefs, nil
}
