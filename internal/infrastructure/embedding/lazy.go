package embedding

import (
	"context"
	"errors"
	"log"
	"sync"

	"job-finder/internal/domain/recommend"
)

var ErrUnavailable = errors.New("embedding backend unavailable")

// LazyEmbedder defers backend warmup to the first Embed call and remembers
// the outcome: a failed warmup marks the backend unavailable for the life of
// the process instead of retrying on every scoring pass. Safe for concurrent
// use; inference calls after a successful warmup run without locking.
type LazyEmbedder struct {
	client *Client
	logger *log.Logger

	once    sync.Once
	initErr error
}

func NewLazyEmbedder(client *Client, logger *log.Logger) *LazyEmbedder {
	return &LazyEmbedder{client: client, logger: logger}
}

var _ recommend.Embedder = (*LazyEmbedder)(nil)

func (l *LazyEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if l == nil || l.client == nil {
		return nil, ErrUnavailable
	}

	l.once.Do(func() {
		if err := l.client.Warmup(ctx); err != nil {
			l.initErr = err
			if l.logger != nil {
				l.logger.Printf("[Embedding] warmup failed, semantic scoring disabled: %v", err)
			}
		}
	})
	if l.initErr != nil {
		return nil, ErrUnavailable
	}

	return l.client.Embed(ctx, texts)
}
