package repository

import (
	"context"
	"database/sql"
	"errors"

	"job-finder/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Profile struct {
	UserID   uuid.UUID
	FullName string
	City     string
	Keywords string
	About    string
}

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// FindByUserID returns a zero-value profile when the user never filled one
// in; a missing profile is not an error for the scoring pipeline.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT user_id, COALESCE(full_name, ''), COALESCE(city, ''), COALESCE(keywords, ''), COALESCE(about, '')
		 FROM profiles
		 WHERE user_id = $1`,
		userID,
	)

	var p Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.City, &p.Keywords, &p.About); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Profile{UserID: userID}, nil
		}
		return Profile{}, err
	}
	return p, nil
}
