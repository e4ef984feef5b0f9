package repository

import (
	"context"
	"time"

	"job-finder/internal/database"

	"github.com/google/uuid"
)

type CacheEntry struct {
	UserID    uuid.UUID
	VacancyID uuid.UUID
	Score     float64
	CreatedAt time.Time
}

type CachedRecommendation struct {
	VacancyID uuid.UUID
	Title     string
	Company   string
	City      string
	Score     float64
}

type RecommendationCacheRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]CachedRecommendation, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, entries []CacheEntry) error
}

type PostgresRecommendationCacheRepository struct {
	db database.DB
}

func NewPostgresRecommendationCacheRepository(db database.DB) *PostgresRecommendationCacheRepository {
	return &PostgresRecommendationCacheRepository{db: db}
}

func (r *PostgresRecommendationCacheRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]CachedRecommendation, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`SELECT rc.vacancy_id, v.title, COALESCE(v.company, ''), COALESCE(v.city, ''), rc.score
		 FROM recommendation_cache rc
		 JOIN vacancies v ON v.id = rc.vacancy_id
		 WHERE rc.user_id = $1
		 ORDER BY rc.score DESC, rc.vacancy_id ASC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CachedRecommendation, 0, limit)
	for rows.Next() {
		var c CachedRecommendation
		if err := rows.Scan(&c.VacancyID, &c.Title, &c.Company, &c.City, &c.Score); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForUser swaps the user's whole cache generation in one transaction.
// A concurrent reader sees either the previous generation or the new one,
// never a mix, and at most one row per (user, vacancy) pair survives.
func (r *PostgresRecommendationCacheRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, entries []CacheEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM recommendation_cache WHERE user_id = $1`, userID); err != nil {
		return err
	}

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recommendation_cache (id, user_id, vacancy_id, score, created_at)
			 VALUES (gen_random_uuid(), $1, $2, $3, NOW())`,
			userID, e.VacancyID, e.Score,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
