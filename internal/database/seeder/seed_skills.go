package seeder

import (
	"context"
	"fmt"

	"job-finder/internal/database"
	"job-finder/internal/domain/skill"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "normalized_name", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	names := []string{
		"Go",
		"Python",
		"JavaScript",
		"TypeScript",
		"Java",
		"C++",
		"C#",
		"PostgreSQL",
		"Redis",
		"Docker",
		"Kubernetes",
		"AWS",
		"Linux",
		"SQL",
	}

	for _, name := range names {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, normalized_name) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
			name,
			skill.NormalizeName(name),
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
