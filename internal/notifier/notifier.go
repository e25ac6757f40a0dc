package notifier

import (
	"sync"

	"feedstream/internal/entity"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Event is a post lifecycle notification. Create and update events carry the
// post (with denormalized creator); delete events carry only the post id.
type Event struct {
	Action Action       `json:"action"`
	Post   *entity.Post `json:"post,omitempty"`
	PostID string       `json:"post_id,omitempty"`
}

// subscriberBuffer bounds how far behind an observer may fall before events
// are dropped for it.
const subscriberBuffer = 16

// Hub is the process-wide broadcast point for post lifecycle events. It is
// constructed once at startup and injected wherever events are published or
// consumed. There is no persistence, no replay for late subscribers, and no
// backpressure: a slow observer loses events, it never blocks a publish.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

// Subscriber is one attached observer with an explicit lifetime: created by
// Subscribe, ended by Close.
type Subscriber struct {
	hub  *Hub
	ch   chan Event
	once sync.Once
}

func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscriber and closes its event channel.
func (s *Subscriber) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subscribers, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{hub: h, ch: make(chan Event, subscriberBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish fans the event out to every currently attached subscriber and
// returns immediately. Subscribers with full buffers are skipped.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
