package refresh

import (
	"context"
	"log"
	"sync"
	"time"

	"job-finder/internal/usecase"

	"github.com/google/uuid"
)

// RefreshFunc recomputes and replaces one user's cached ranking.
type RefreshFunc func(ctx context.Context, userID uuid.UUID, limit int) error

// Locks is the shared in-flight marker store. The redis cache wrapper
// satisfies it.
type Locks interface {
	Ping(ctx context.Context) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Trigger schedules fire-and-forget cache refreshes. Each user is either
// idle or refreshing: a per-user marker (redis across instances, a local map
// when redis is down) collapses a burst of cache-miss reads into one in-flight
// refresh. Failures are logged and leave the previous cache generation
// untouched.
type Trigger struct {
	pool    *pool
	refresh RefreshFunc
	locks   Locks
	lockTTL time.Duration
	timeout time.Duration
	logger  *log.Logger

	mu    sync.Mutex
	local map[uuid.UUID]struct{}
}

type Options struct {
	Workers int
	Buffer  int
	LockTTL time.Duration
	Timeout time.Duration
}

func NewTrigger(refresh RefreshFunc, locks Locks, opts Options, logger *log.Logger) *Trigger {
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Trigger{
		pool:    newPool(opts.Workers, opts.Buffer),
		refresh: refresh,
		locks:   locks,
		lockTTL: lockTTL,
		timeout: timeout,
		logger:  logger,
		local:   make(map[uuid.UUID]struct{}),
	}
}

// Start launches the workers. They stop when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	if t == nil {
		return
	}
	t.pool.start(ctx)
}

func (t *Trigger) Close() {
	if t == nil {
		return
	}
	t.pool.close()
}

// Schedule enqueues a refresh for the user and returns immediately. The
// caller cannot wait on or cancel the job.
func (t *Trigger) Schedule(userID uuid.UUID, limit int) {
	if t == nil || t.refresh == nil || userID == uuid.Nil {
		return
	}

	release, ok := t.tryAcquire(userID)
	if !ok {
		return
	}

	submitted := t.pool.submit(func(poolCtx context.Context) {
		defer release()
		defer func() {
			if r := recover(); r != nil && t.logger != nil {
				t.logger.Printf("[Refresh] panic recovered user=%s: %v", userID, r)
			}
		}()

		ctx, cancel := context.WithTimeout(poolCtx, t.timeout)
		defer cancel()

		if err := t.refresh(ctx, userID, limit); err != nil {
			if t.logger != nil {
				t.logger.Printf("[Refresh] refresh failed user=%s limit=%d: %v", userID, limit, err)
			}
			return
		}
	})
	if !submitted {
		release()
		if t.logger != nil {
			t.logger.Printf("[Refresh] queue full, dropping refresh user=%s", userID)
		}
	}
}

// tryAcquire flips the user from idle to refreshing. The redis marker covers
// all instances; when redis is unreachable a process-local map still
// deduplicates within this process. The marker carries a TTL so a crashed
// worker cannot leave a user stuck in refreshing.
func (t *Trigger) tryAcquire(userID uuid.UUID) (func(), bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if t.locks != nil && t.locks.Ping(ctx) == nil {
		key := usecase.RefreshLockKey(userID)
		ok, err := t.locks.SetIfNotExists(ctx, key, "refreshing", t.lockTTL)
		if err == nil {
			if !ok {
				return nil, false
			}
			return func() {
				relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer relCancel()
				_ = t.locks.Delete(relCtx, key)
			}, true
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.local[userID]; busy {
		return nil, false
	}
	t.local[userID] = struct{}{}
	return func() {
		t.mu.Lock()
		delete(t.local, userID)
		t.mu.Unlock()
	}, true
}
