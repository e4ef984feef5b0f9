package refresh

import (
	"context"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeLocks struct {
	mu      sync.Mutex
	held    map[string]struct{}
	pingErr error
	setErr  error
	sets    int
	deletes int
}

func newFakeLocks() *fakeLocks {
	return &fakeLocks{held: make(map[string]struct{})}
}

func (f *fakeLocks) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeLocks) SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = struct{}{}
	return true, nil
}

func (f *fakeLocks) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.held, key)
	return nil
}

func discardLogger() *log.Logger {
	return log.New(nopWriter{}, "", 0)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestTrigger_ScheduleRunsRefresh(t *testing.T) {
	done := make(chan uuid.UUID, 1)
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		done <- userID
		return nil
	}

	tr := NewTrigger(refresh, newFakeLocks(), Options{Workers: 1, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)

	select {
	case got := <-done:
		if got != userID {
			t.Fatalf("refresh ran for wrong user: %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled refresh never ran")
	}
}

func TestTrigger_InFlightUserNotScheduledTwice(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs int
	var mu sync.Mutex
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		mu.Lock()
		runs++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil
	}

	locks := newFakeLocks()
	tr := NewTrigger(refresh, locks, Options{Workers: 2, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)
	<-started

	// The user is refreshing: further schedules must be collapsed.
	tr.Schedule(userID, 10)
	tr.Schedule(userID, 10)
	close(release)

	select {
	case <-started:
		t.Fatalf("second refresh ran for an in-flight user")
	case <-time.After(200 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	if runs != 1 {
		t.Fatalf("expected exactly one refresh run, got %d", runs)
	}
}

func TestTrigger_MarkerReleasedAfterRun(t *testing.T) {
	done := make(chan struct{}, 2)
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		done <- struct{}{}
		return nil
	}

	locks := newFakeLocks()
	tr := NewTrigger(refresh, locks, Options{Workers: 1, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)
	<-done

	waitForRelease(t, locks)

	tr.Schedule(userID, 10)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("user stayed marked refreshing after the first run finished")
	}
}

func TestTrigger_FailedRefreshReleasesMarker(t *testing.T) {
	done := make(chan struct{}, 2)
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		done <- struct{}{}
		return errors.New("db down")
	}

	locks := newFakeLocks()
	tr := NewTrigger(refresh, locks, Options{Workers: 1, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)
	<-done

	waitForRelease(t, locks)

	tr.Schedule(userID, 10)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("failed refresh left the user stuck in refreshing")
	}
}

func TestTrigger_PanicRecoveredAndMarkerReleased(t *testing.T) {
	var calls int
	var mu sync.Mutex
	done := make(chan struct{}, 2)
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		done <- struct{}{}
		if first {
			panic("scorer blew up")
		}
		return nil
	}

	locks := newFakeLocks()
	tr := NewTrigger(refresh, locks, Options{Workers: 1, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)
	<-done

	waitForRelease(t, locks)

	tr.Schedule(userID, 10)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("panicking refresh killed the worker or leaked the marker")
	}
}

func TestTrigger_LocalFallbackWhenLockStoreDown(t *testing.T) {
	locks := newFakeLocks()
	locks.pingErr = errors.New("redis unreachable")

	started := make(chan struct{})
	release := make(chan struct{})
	var runs int
	var mu sync.Mutex
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		mu.Lock()
		runs++
		mu.Unlock()
		started <- struct{}{}
		<-release
		return nil
	}

	tr := NewTrigger(refresh, locks, Options{Workers: 2, Buffer: 4}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	userID := uuid.New()
	tr.Schedule(userID, 10)
	<-started
	tr.Schedule(userID, 10)
	close(release)

	select {
	case <-started:
		t.Fatalf("local fallback failed to deduplicate")
	case <-time.After(200 * time.Millisecond):
	}

	if locks.sets != 0 {
		t.Fatalf("unreachable lock store must not be written to")
	}
	mu.Lock()
	defer mu.Unlock()
	if runs != 1 {
		t.Fatalf("expected exactly one refresh run, got %d", runs)
	}
}

func TestTrigger_FullQueueDropsAndReleases(t *testing.T) {
	var runs int
	var mu sync.Mutex
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		mu.Lock()
		runs++
		mu.Unlock()
		return nil
	}

	// Workers never started and the queue holds nothing: every submit fails.
	locks := newFakeLocks()
	tr := NewTrigger(refresh, locks, Options{Workers: 1, Buffer: 0}, discardLogger())

	userID := uuid.New()
	tr.Schedule(userID, 10)
	tr.Schedule(userID, 10)

	mu.Lock()
	defer mu.Unlock()
	if runs != 0 {
		t.Fatalf("unstarted pool must not run anything")
	}
	// A dropped job must release its marker so both schedules attempted the lock.
	if locks.sets != 2 {
		t.Fatalf("expected the marker acquired (and released) per attempt, got %d acquisitions", locks.sets)
	}
	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.held) != 0 {
		t.Fatalf("dropped job leaked its in-flight marker")
	}
}

func TestTrigger_NilUserIgnored(t *testing.T) {
	refresh := func(ctx context.Context, userID uuid.UUID, limit int) error {
		t.Fatalf("refresh must not run for the nil user")
		return nil
	}
	tr := NewTrigger(refresh, newFakeLocks(), Options{Workers: 1, Buffer: 1}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr.Start(ctx)

	tr.Schedule(uuid.Nil, 10)
	time.Sleep(100 * time.Millisecond)
}

func waitForRelease(t *testing.T, locks *fakeLocks) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		locks.mu.Lock()
		free := len(locks.held) == 0
		locks.mu.Unlock()
		if free {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("in-flight marker never released")
}
