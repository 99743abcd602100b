// File: /services/message_service_test.go
package services

import (
	"testing"
	"time"

	"tablemates-api/models"
)

func TestGetOrCreateConversationIsIdempotent(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	first, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Same pair, either order, yields the same thread
	second, err := svc.GetOrCreateConversation(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected one thread per pair, got %s and %s", first.ID, second.ID)
	}

	if first.UnreadCount[alice.ID] != 0 || first.UnreadCount[bob.ID] != 0 {
		t.Errorf("expected zeroed unread counters, got %v", first.UnreadCount)
	}
	if first.ParticipantDetails[alice.ID].Name != "Alice" {
		t.Errorf("expected alice's snapshot in participant details, got %v", first.ParticipantDetails)
	}
}

func TestGetOrCreateConversationRequiresProfiles(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")

	_, err := svc.GetOrCreateConversation(alice.ID, "ghost")
	if KindOf(err) != KindProfileUnavailable {
		t.Errorf("expected profile-unavailable error, got %v", err)
	}
}

func TestSendBumpsOnlyRecipientUnread(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	conversation, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Send(conversation.ID, alice.ID, "Alice", "lunch tomorrow?"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if err := svc.Send(conversation.ID, alice.ID, "Alice", "sushi garden at noon"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	got, svcErr := svc.Get(conversation.ID)
	if svcErr != nil {
		t.Fatalf("get failed: %v", svcErr)
	}
	if got.UnreadCount[bob.ID] != 2 {
		t.Errorf("expected bob's unread counter at 2, got %d", got.UnreadCount[bob.ID])
	}
	if got.UnreadCount[alice.ID] != 0 {
		t.Errorf("expected alice's unread counter untouched, got %d", got.UnreadCount[alice.ID])
	}
	if got.LastMessage != "sushi garden at noon" {
		t.Errorf("expected preview to track latest message, got %q", got.LastMessage)
	}
}

func TestMarkReadZeroesCounterAndIsIdempotent(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	conversation, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Send(conversation.ID, alice.ID, "Alice", "hey"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.MarkRead(conversation.ID, bob.ID); err != nil {
			t.Fatalf("mark read failed: %v", err)
		}
	}

	got, svcErr := svc.Get(conversation.ID)
	if svcErr != nil {
		t.Fatalf("get failed: %v", svcErr)
	}
	if got.UnreadCount[bob.ID] != 0 {
		t.Errorf("expected bob's unread counter zeroed, got %d", got.UnreadCount[bob.ID])
	}
}

func TestSendBlankTextIsSilentNoOp(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	conversation, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Send(conversation.ID, alice.ID, "Alice", "   \n\t  "); err != nil {
		t.Fatalf("expected blank send to succeed silently, got %v", err)
	}

	messages, svcErr := svc.Messages(conversation.ID)
	if svcErr != nil {
		t.Fatalf("messages failed: %v", svcErr)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages after blank send, got %d", len(messages))
	}
}

func TestMessagesOrderedByTimestamp(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	conversation, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	texts := []string{"one", "two", "three"}
	for _, text := range texts {
		if err := svc.Send(conversation.ID, alice.ID, "Alice", text); err != nil {
			t.Fatalf("send failed: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	messages, svcErr := svc.Messages(conversation.ID)
	if svcErr != nil {
		t.Fatalf("messages failed: %v", svcErr)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, text := range texts {
		if messages[i].Text != text {
			t.Errorf("position %d: expected %q, got %q", i, text, messages[i].Text)
		}
	}
	if !messages[0].Timestamp.Before(messages[2].Timestamp) {
		t.Error("expected timestamps ascending")
	}
}

func TestUserConversationsOrderedByActivity(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")
	carol := createTestUser(t, db, "Carol")

	withBob, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	withCarol, err := svc.GetOrCreateConversation(alice.ID, carol.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if err := svc.Send(withBob.ID, bob.ID, "Bob", "ping"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	threads, svcErr := svc.UserConversations(alice.ID)
	if svcErr != nil {
		t.Fatalf("list failed: %v", svcErr)
	}
	if len(threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(threads))
	}
	if threads[0].ID != withBob.ID {
		t.Errorf("expected thread with latest activity first, got %s", threads[0].ID)
	}
	if threads[1].ID != withCarol.ID {
		t.Errorf("expected quiet thread second, got %s", threads[1].ID)
	}
}

func TestSearchConversationsByParticipantName(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bobby Tables")
	carol := createTestUser(t, db, "Carol")

	if _, err := svc.GetOrCreateConversation(alice.ID, bob.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.GetOrCreateConversation(alice.ID, carol.ID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := svc.SearchConversations(alice.ID, "bobby")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}
	other := results[0].OtherParticipant(alice.ID)
	if results[0].ParticipantDetails[other].Name != "Bobby Tables" {
		t.Errorf("expected match on bobby's thread, got %v", results[0].ParticipantDetails)
	}
}

func TestSubscribeMessagesDeliversOnSend(t *testing.T) {
	svc, db := newTestMessageService(t)
	alice := createTestUser(t, db, "Alice")
	bob := createTestUser(t, db, "Bob")

	conversation, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var latest []models.Message
	unsubscribe := svc.SubscribeMessages(conversation.ID, func(messages []models.Message) {
		latest = messages
	})
	defer unsubscribe()

	if len(latest) != 0 {
		t.Fatalf("expected empty initial snapshot, got %d", len(latest))
	}

	if err := svc.Send(conversation.ID, alice.ID, "Alice", "anyone hungry?"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(latest) != 1 || latest[0].Text != "anyone hungry?" {
		t.Errorf("expected snapshot with the sent message, got %v", latest)
	}
}
