package mqtt

import (
	"sync"

	"roof_vent/internal/hazard"
	"roof_vent/internal/logger"
)

// DefaultQueueSize bounds the alerts waiting for the broker.
const DefaultQueueSize = 32

// Buffered hands alerts to a background goroutine so that a slow broker never
// stalls the caller. When the queue is full the oldest alert is dropped.
type Buffered struct {
	next Publisher
	log  *logger.Logger

	mu       sync.Mutex
	queue    []hazard.Alert
	size     int
	overflow bool
	closed   bool
	wake     chan struct{}
	done     chan struct{}
}

// NewBuffered starts the forwarding goroutine. size <= 0 means DefaultQueueSize.
func NewBuffered(next Publisher, size int, log *logger.Logger) *Buffered {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}
	b := &Buffered{
		next: next,
		log:  log,
		size: size,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go b.forward()
	return b
}

// PublishAlert queues the alert and returns at once.
func (b *Buffered) PublishAlert(alert hazard.Alert) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	if len(b.queue) == b.size {
		if !b.overflow {
			b.log.Warnw("alert queue full, dropping oldest", "size", b.size)
			b.overflow = true
		}
		b.queue = b.queue[1:]
	}
	b.queue = append(b.queue, alert)
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return nil
}

func (b *Buffered) drain() ([]hazard.Alert, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.queue
	b.queue = nil
	b.overflow = false
	return out, b.closed
}

func (b *Buffered) forward() {
	defer close(b.done)
	for range b.wake {
		batch, closed := b.drain()
		for _, a := range batch {
			if err := b.next.PublishAlert(a); err != nil {
				b.log.Warnw("alert_publish_failed", "id", a.ID, "err", err)
			}
		}
		if closed {
			return
		}
	}
}

// Close flushes queued alerts, then closes the wrapped publisher.
func (b *Buffered) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.wake <- struct{}{}
	<-b.done
	return b.next.Close()
}
