package seeder

import (
	"context"
	"fmt"

	"job-finder/internal/database"
)

type VacanciesSeeder struct{}

func (VacanciesSeeder) Name() string { return "vacancies" }

func (VacanciesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "vacancies", "id", "title", "description", "company", "city", "published_at", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Title        string
		Description  string
		Requirements string
		Company      string
		City         string
		Skills       []string
	}{
		{
			Title:        "Backend Engineer (Go)",
			Description:  "Build and operate backend services for a job marketplace.",
			Requirements: "Strong Go, PostgreSQL, Docker. Redis is a plus.",
			Company:      "Acme",
			City:         "Berlin",
			Skills:       []string{"Go", "PostgreSQL", "Docker"},
		},
		{
			Title:        "Data Engineer",
			Description:  "Design data pipelines and warehouse models.",
			Requirements: "Python, SQL, AWS.",
			Company:      "DataCo",
			City:         "Amsterdam",
			Skills:       []string{"Python", "SQL", "AWS"},
		},
		{
			Title:        "Platform Engineer",
			Description:  "Own the Kubernetes platform and deployment tooling.",
			Requirements: "Kubernetes, Docker, Linux, Go.",
			Company:      "CloudWorks",
			City:         "Remote",
			Skills:       []string{"Kubernetes", "Docker", "Linux", "Go"},
		},
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO vacancies (id, title, description, requirements, company, city, source, published_at)
			 SELECT gen_random_uuid(), $1, $2, $3, $4, $5, 'seed', NOW()
			 WHERE NOT EXISTS (SELECT 1 FROM vacancies WHERE title = $1 AND company = $4)`,
			it.Title, it.Description, it.Requirements, it.Company, it.City,
		); err != nil {
			return err
		}

		for _, skillName := range it.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO vacancy_skills (vacancy_id, skill_id, weight)
				 SELECT v.id, s.id, 1.0
				 FROM vacancies v, skills s
				 WHERE v.title = $1 AND v.company = $2 AND s.name = $3
				 ON CONFLICT (vacancy_id, skill_id) DO NOTHING`,
				it.Title, it.Company, skillName,
			); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
