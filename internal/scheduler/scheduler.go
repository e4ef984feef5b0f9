// Package scheduler wires up the cron job that periodically re-warms the
// recommendation cache for every user with a skill profile.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"job-finder/internal/refresh"
	"job-finder/internal/repository"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron    *cron.Cron
	users   repository.UserRepository
	trigger *refresh.Trigger
	limit   int
	spec    string
	logger  *log.Logger
}

func New(users repository.UserRepository, trigger *refresh.Trigger, spec string, limit int, logger *log.Logger) *Scheduler {
	if spec == "" {
		spec = "@every 6h"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		users:   users,
		trigger: trigger,
		limit:   limit,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the sweep and starts the cron loop. One sweep also runs
// immediately so a fresh deployment does not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Printf("[Scheduler] cron started spec=%s", s.spec)

	go s.runSweep(ctx)

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Printf("[Scheduler] cron stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	userIDs, err := s.users.ListUserIDsWithSkills(ctx)
	if err != nil {
		s.logger.Printf("[Scheduler] list users error: %v", err)
		return
	}
	if len(userIDs) == 0 {
		s.logger.Printf("[Scheduler] no users with skills, nothing to refresh")
		return
	}

	s.logger.Printf("[Scheduler] sweep started users=%d", len(userIDs))
	for _, id := range userIDs {
		s.trigger.Schedule(id, s.limit)
	}
}
