package application

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"chipwarden/internal/ports"
)

// DefaultQueueSize bounds the outbound notification queue.
const DefaultQueueSize = 16

// sendTimeout caps how long the worker waits on a single delivery.
const sendTimeout = 10 * time.Second

type notice struct {
	text      string
	formatted bool
}

// Dispatcher decouples notification delivery from the archival path: the
// pipeline enqueues without blocking and a single worker drains the queue.
// On overflow the oldest queued notice is dropped and a warning logged.
type Dispatcher struct {
	notifier ports.Notifier
	logger   *zap.Logger
	queue    chan notice

	mu      sync.Mutex
	started bool
}

// NewDispatcher creates a Dispatcher with the default queue capacity.
func NewDispatcher(notifier ports.Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan notice, DefaultQueueSize),
	}
}

// Start launches the delivery worker. It returns immediately; the worker
// runs until ctx is cancelled. Start is a no-op when called twice.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-d.queue:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			err := d.notifier.Send(sendCtx, n.text, n.formatted)
			cancel()
			if err != nil {
				d.logger.Warn("notification delivery failed", zap.Error(err))
			}
		}
	}
}

// Enqueue queues a notice for delivery without ever blocking the caller.
// When the queue is full the oldest pending notice is discarded to make
// room.
func (d *Dispatcher) Enqueue(text string, formatted bool) {
	n := notice{text: text, formatted: formatted}

	d.mu.Lock()
	defer d.mu.Unlock()
	for {
		select {
		case d.queue <- n:
			return
		default:
		}
		select {
		case dropped := <-d.queue:
			d.logger.Warn("notification queue full, dropping oldest notice",
				zap.String("dropped", firstLine(dropped.text)))
		default:
		}
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
