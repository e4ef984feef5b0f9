package repository

import (
	"context"

	"job-finder/internal/database"

	"github.com/google/uuid"
)

type UserRepository interface {
	ListUserIDsWithSkills(ctx context.Context) ([]uuid.UUID, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// ListUserIDsWithSkills feeds the periodic refresh sweep: only users with at
// least one declared skill can produce a non-empty ranking.
func (r *PostgresUserRepository) ListUserIDsWithSkills(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT u.id
		 FROM users u
		 JOIN user_skills us ON us.user_id = u.id
		 ORDER BY u.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
