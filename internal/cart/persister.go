package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const writeTimeout = 5 * time.Second

// persister writes cart snapshots on a single goroutine. Only the newest
// unwritten snapshot is kept: every snapshot is the whole cart, so an older
// pending one is simply replaced. Callers enqueue and move on.
type persister struct {
	storage Storage
	key     string
	log     *slog.Logger

	mu       sync.Mutex
	pending  *string
	queued   uint64        // generation of the newest enqueued snapshot
	written  uint64        // generation of the newest attempted snapshot
	progress chan struct{} // closed and replaced whenever written advances

	wake     chan struct{}
	stopOnce sync.Once
	stopping chan struct{}
	closed   chan struct{}
}

func newPersister(storage Storage, key string, log *slog.Logger) *persister {
	p := &persister{
		storage:  storage,
		key:      key,
		log:      log,
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		stopping: make(chan struct{}),
		closed:   make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *persister) run() {
	defer close(p.closed)
	for {
		select {
		case <-p.wake:
			p.writePending()
		case <-p.stopping:
			p.writePending()
			return
		}
	}
}

func (p *persister) writePending() {
	p.mu.Lock()
	value, gen := p.pending, p.queued
	p.pending = nil
	p.mu.Unlock()

	if value != nil {
		p.write(*value)
	}

	p.mu.Lock()
	if gen > p.written {
		p.written = gen
		close(p.progress)
		p.progress = make(chan struct{})
	}
	p.mu.Unlock()
}

func (p *persister) write(value string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := p.storage.Set(ctx, p.key, value); err != nil {
		p.log.Error("cart persist failed", "error", err)
	}
}

// enqueue never blocks; it replaces any snapshot still waiting to be written.
func (p *persister) enqueue(value string) {
	p.mu.Lock()
	p.pending = &value
	p.queued++
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// flush waits until the newest snapshot enqueued before the call has been attempted.
func (p *persister) flush(ctx context.Context) error {
	p.mu.Lock()
	target := p.queued
	for p.written < target {
		progress := p.progress
		p.mu.Unlock()

		select {
		case <-progress:
		case <-p.closed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
		p.mu.Lock()
	}
	p.mu.Unlock()
	return nil
}

// stop writes the pending snapshot and ends the writer goroutine.
func (p *persister) stop(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stopping) })
	select {
	case <-p.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
