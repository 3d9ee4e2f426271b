package sync

import (
	"sync"

	"github.com/homekeepapp/go-home-keeper/models"
)

// Bus fans sync events out to registered listeners (typically the UI layer).
// Listeners run synchronously on the notifying goroutine; they must not block.
type Bus struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(models.SyncEvent)
}

func NewBus() *Bus {
	return &Bus{listeners: make(map[int]func(models.SyncEvent))}
}

// AddListener registers fn and returns a function that unsubscribes it.
func (b *Bus) AddListener(fn func(models.SyncEvent)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

// Notify delivers the event to every registered listener.
func (b *Bus) Notify(event models.SyncEvent) {
	b.mu.Lock()
	fns := make([]func(models.SyncEvent), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}
