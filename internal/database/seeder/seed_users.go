package seeder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"job-finder/internal/database"

	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct{}

func (UsersSeeder) Name() string { return "users" }

// Run creates the demo account used in development environments, together
// with a profile and a small skill set so the recommendation pipeline has
// signal to work with out of the box.
func (UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "email", "password_hash", "created_at"); err != nil {
		return err
	}

	email := strings.TrimSpace(os.Getenv("SEED_USER_EMAIL"))
	if email == "" {
		email = "demo@job-finder.local"
	}
	password := strings.TrimSpace(os.Getenv("SEED_USER_PASSWORD"))
	if password == "" {
		password = "demo-password"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (email) DO NOTHING`,
		email, string(hash),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, user_id, full_name, keywords, about)
		 SELECT gen_random_uuid(), u.id, 'Demo User', 'backend golang postgres', 'Backend engineer looking for Go roles'
		 FROM users u
		 WHERE u.email = $1
		 ON CONFLICT (user_id) DO NOTHING`,
		email,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_skills (user_id, skill_id, level)
		 SELECT u.id, s.id, 3
		 FROM users u, skills s
		 WHERE u.email = $1 AND s.name IN ('Go', 'PostgreSQL', 'Docker')
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		email,
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
