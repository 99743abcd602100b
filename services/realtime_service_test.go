// File: /services/realtime_service_test.go
package services

import (
	"sync"
	"testing"
)

func TestHubPublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()

	meetupHits := 0
	chatHits := 0
	hub.Subscribe(TopicMeetups, func() { meetupHits++ })
	hub.Subscribe(TopicConversations("u1"), func() { chatHits++ })

	hub.Publish(TopicMeetups)
	hub.Publish(TopicMeetups)

	if meetupHits != 2 {
		t.Errorf("expected 2 meetup deliveries, got %d", meetupHits)
	}
	if chatHits != 0 {
		t.Errorf("expected no conversation deliveries, got %d", chatHits)
	}
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()

	hits := 0
	unsubscribe := hub.Subscribe(TopicMeetups, func() { hits++ })

	if hub.SubscriberCount(TopicMeetups) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount(TopicMeetups))
	}

	unsubscribe()
	unsubscribe() // second call must not panic or affect other state

	if hub.SubscriberCount(TopicMeetups) != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", hub.SubscriberCount(TopicMeetups))
	}

	hub.Publish(TopicMeetups)
	if hits != 0 {
		t.Errorf("expected no deliveries after unsubscribe, got %d", hits)
	}
}

func TestHubUnsubscribeOneLeavesOthers(t *testing.T) {
	hub := NewHub()

	aHits := 0
	bHits := 0
	cancelA := hub.Subscribe(TopicMeetups, func() { aHits++ })
	hub.Subscribe(TopicMeetups, func() { bHits++ })

	cancelA()
	hub.Publish(TopicMeetups)

	if aHits != 0 {
		t.Errorf("expected cancelled subscriber untouched, got %d", aHits)
	}
	if bHits != 1 {
		t.Errorf("expected remaining subscriber delivered, got %d", bHits)
	}
}

func TestHubConcurrentPublishAndSubscribe(t *testing.T) {
	hub := NewHub()

	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsub := hub.Subscribe(TopicMeetups, func() {
				mu.Lock()
				total++
				mu.Unlock()
			})
			defer unsub()
			hub.Publish(TopicMeetups)
		}()
		go func() {
			defer wg.Done()
			hub.Publish(TopicMeetups)
		}()
	}
	wg.Wait()

	if hub.SubscriberCount(TopicMeetups) != 0 {
		t.Errorf("expected all subscriptions released, got %d", hub.SubscriberCount(TopicMeetups))
	}
}
