package refresh

import (
	"context"
	"sync"
)

type task func(ctx context.Context)

// pool runs refresh jobs on a fixed set of workers. Submission never blocks:
// when the queue is full the job is dropped and reported to the caller, so a
// request storm against a cold cache cannot stall the read path.
type pool struct {
	workers int
	tasks   chan task
	wg      sync.WaitGroup
}

func newPool(workers, buffer int) *pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &pool{
		workers: workers,
		tasks:   make(chan task, buffer),
	}
}

func (p *pool) start(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					t(ctx)
				}
			}
		}()
	}
}

func (p *pool) submit(t task) bool {
	if p == nil || t == nil {
		return false
	}
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

func (p *pool) close() {
	close(p.tasks)
	p.wg.Wait()
}
