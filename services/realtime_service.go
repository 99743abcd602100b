// File: /services/realtime_service.go
package services

import (
	"sync"
)

// Topic names for the realtime hub. Meetup changes share one topic because
// subscribers re-filter on delivery; conversation and message topics are
// scoped to a user or a thread.
const (
	TopicMeetups = "meetups"
)

func TopicConversations(userID string) string {
	return "conversations:" + userID
}

func TopicMessages(conversationID string) string {
	return "messages:" + conversationID
}

// Hub is an in-process publish/subscribe registry. Every mutating service
// operation publishes its topic after the write lands; each subscriber then
// re-queries the store and receives an independent fresh snapshot, so no
// shared mutable state crosses callback invocations.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func()
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[int]func()),
	}
}

// Subscribe registers notify against a topic and returns an unsubscribe
// function. The unsubscribe function is safe to call more than once, but
// callers own exactly one call when a view is torn down; an abandoned
// subscription keeps firing forever.
func (h *Hub) Subscribe(topic string, notify func()) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]func())
	}
	h.subs[topic][id] = notify
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			if subs, ok := h.subs[topic]; ok {
				delete(subs, id)
				if len(subs) == 0 {
					delete(h.subs, topic)
				}
			}
			h.mu.Unlock()
		})
	}
}

// Publish invokes every subscriber of the topic. Callbacks run outside the
// registry lock; a subscriber that blocks delays later publishes to the same
// topic but never deadlocks the hub.
func (h *Hub) Publish(topic string) {
	h.mu.RLock()
	notifies := make([]func(), 0, len(h.subs[topic]))
	for _, notify := range h.subs[topic] {
		notifies = append(notifies, notify)
	}
	h.mu.RUnlock()

	for _, notify := range notifies {
		notify()
	}
}

// SubscriberCount reports active subscriptions on a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}
