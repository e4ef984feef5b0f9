// Package seeder loads development fixtures: canonical skills, a demo user
// with a profile, and a few vacancies with weighted skill tags. Every seeder
// is idempotent, so repeated runs converge.
package seeder

import (
	"context"
	"errors"
	"fmt"

	"job-finder/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults returns the seeders in dependency order: skills first, then the
// user and vacancies that reference them.
func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
		UsersSeeder{},
		VacanciesSeeder{},
	}
}

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}

// EnsureTableColumns fails fast with a clear message when the schema does
// not match what the seeder is about to insert, instead of a mid-transaction
// SQL error.
func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return errors.New("nil db")
	}
	if table == "" {
		return errors.New("empty table")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range columns {
		if col == "" {
			return errors.New("empty column")
		}
		if !present[col] {
			return fmt.Errorf("table %s is missing column %s, run migrations first", table, col)
		}
	}
	return nil
}
