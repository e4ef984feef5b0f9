package repository

import (
	"context"

	"job-finder/internal/database"
	"job-finder/internal/domain/vacancy"

	"github.com/google/uuid"
)

type VacancyRepository interface {
	ListCandidates(ctx context.Context) ([]vacancy.Vacancy, error)
	FindSkillTagsByVacancyIDs(ctx context.Context, vacancyIDs []uuid.UUID) (map[uuid.UUID][]vacancy.SkillTag, error)
}

type PostgresVacancyRepository struct {
	db database.DB
}

func NewPostgresVacancyRepository(db database.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{db: db}
}

func (r *PostgresVacancyRepository) ListCandidates(ctx context.Context) ([]vacancy.Vacancy, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), COALESCE(requirements, ''), COALESCE(responsibilities, ''),
		        COALESCE(company, ''), COALESCE(city, ''), COALESCE(url, ''), COALESCE(source, ''), published_at, created_at
		 FROM vacancies
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vacancy.Vacancy, 0)
	for rows.Next() {
		var v vacancy.Vacancy
		if err := rows.Scan(
			&v.ID, &v.Title, &v.Description, &v.Requirements, &v.Responsibilities,
			&v.Company, &v.City, &v.URL, &v.Source, &v.PublishedAt, &v.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresVacancyRepository) FindSkillTagsByVacancyIDs(ctx context.Context, vacancyIDs []uuid.UUID) (map[uuid.UUID][]vacancy.SkillTag, error) {
	out := make(map[uuid.UUID][]vacancy.SkillTag, len(vacancyIDs))
	if len(vacancyIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT vacancy_id, skill_id, weight
		 FROM vacancy_skills
		 WHERE vacancy_id = ANY($1)`,
		vacancyIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t vacancy.SkillTag
		if err := rows.Scan(&t.VacancyID, &t.SkillID, &t.Weight); err != nil {
			return nil, err
		}
		out[t.VacancyID] = append(out[t.VacancyID], t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
