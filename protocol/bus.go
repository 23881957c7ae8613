package protocol

import (
	"context"
	"errors"
	"sync"
)

// DefaultCapacity is the request queue size used when NewBus is given a
// non-positive capacity.
const DefaultCapacity = 64

var (
	// ErrNoOpener is returned when the space is not ready and the requester
	// has no way to open it.
	ErrNoOpener = errors.New("protocol: space not ready and no opener set")
	// ErrExportQueueFull is returned when nobody is reading Exports.
	ErrExportQueueFull = errors.New("protocol: export queue full")
)

// Bus is the goroutine-safe channel between UI surfaces and a space. It
// queues requests and tracks whether a space is ready to consume them.
type Bus struct {
	requests chan Message
	exports  chan ExportObjectRequested

	mu      sync.Mutex
	ready   bool
	readyCh chan struct{} // closed while ready
}

// NewBus creates a bus whose request and export queues hold capacity
// messages each.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		requests: make(chan Message, capacity),
		exports:  make(chan ExportObjectRequested, capacity),
		readyCh:  make(chan struct{}),
	}
}

// Publish queues msg. It blocks while the queue is full, until ctx is done.
func (b *Bus) Publish(ctx context.Context, msg Message) error {
	select {
	case b.requests <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MarkReady acknowledges that a space is consuming the bus. Waiters in
// WaitReady are released.
func (b *Bus) MarkReady() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return
	}
	b.ready = true
	close(b.readyCh)
}

// MarkClosed withdraws the ready acknowledgement. Later WaitReady calls
// block until the next MarkReady.
func (b *Bus) MarkClosed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ready {
		return
	}
	b.ready = false
	b.readyCh = make(chan struct{})
}

// Ready reports whether a space is consuming the bus.
func (b *Bus) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// WaitReady blocks until a space has acknowledged readiness or ctx is done.
func (b *Bus) WaitReady(ctx context.Context) error {
	b.mu.Lock()
	ch := b.readyCh
	b.mu.Unlock()
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Exports returns the stream of export notifications for UI consumers.
func (b *Bus) Exports() <-chan ExportObjectRequested {
	return b.exports
}

// next returns a queued request without blocking.
func (b *Bus) next() (Message, bool) {
	select {
	case msg := <-b.requests:
		return msg, true
	default:
		return nil, false
	}
}

func (b *Bus) publishExport(e ExportObjectRequested) error {
	select {
	case b.exports <- e:
		return nil
	default:
		return ErrExportQueueFull
	}
}
