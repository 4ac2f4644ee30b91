// Package events delivers "contacts changed" notifications between the flows that
// mutate contacts and the views that display them.
package events

import (
	"log/slog"
	"sync"
)

// ChangeFeed fans a payload-less change signal out to every subscriber. Each
// subscriber channel holds at most one pending signal; publishing while one is
// pending coalesces into it.
type ChangeFeed struct {
	mu     sync.RWMutex
	subs   map[int]chan struct{}
	nextID int
	logger *slog.Logger
}

func NewChangeFeed(logger *slog.Logger) *ChangeFeed {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeFeed{
		subs:   make(map[int]chan struct{}),
		logger: logger,
	}
}

// Subscribe returns a channel that receives a value after each Publish, and a
// function that unsubscribes and closes the channel.
func (f *ChangeFeed) Subscribe() (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	ch := make(chan struct{}, 1)
	f.subs[id] = ch

	f.logger.Debug("subscribed to contact changes", slog.Int("subscriber", id))

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
}

// Publish notifies all subscribers without blocking.
func (f *ChangeFeed) Publish() {
	f.mu.RLock()
	defer f.mu.RUnlock()

	delivered := 0
	for _, ch := range f.subs {
		select {
		case ch <- struct{}{}:
			delivered++
		default:
		}
	}

	f.logger.Debug("published contact change", slog.Int("subscribers", len(f.subs)), slog.Int("delivered", delivered))
}

// Subscribers returns the number of active subscriptions.
func (f *ChangeFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
