// File: /services/message_service.go
package services

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"tablemates-api/models"
	"tablemates-api/repositories"
)

// MessageService coordinates 1:1 threads: idempotent lookup-or-creation,
// the append-only message log, and unread-count bookkeeping.
type MessageService struct {
	repo  *repositories.ConversationRepository
	users *UserService
	hub   *Hub
}

func NewMessageService(repo *repositories.ConversationRepository, users *UserService, hub *Hub) *MessageService {
	return &MessageService{
		repo:  repo,
		users: users,
		hub:   hub,
	}
}

// GetOrCreateConversation returns the unique thread for the unordered pair,
// creating it with both profiles snapshotted and zeroed unread counters when
// none exists. Sequential calls are idempotent; concurrent creators collide
// on the pair index and the loser re-reads the winner's thread.
func (s *MessageService) GetOrCreateConversation(userID1, userID2 string) (*models.Conversation, *Error) {
	existing, err := s.repo.FindByPair(userID1, userID2)
	if err != nil {
		return nil, StoreError(err, "Failed to get or create conversation")
	}
	if existing != nil {
		return existing, nil
	}

	user1, svcErr := s.users.GetProfile(userID1)
	if svcErr != nil {
		return nil, svcErr
	}
	user2, svcErr := s.users.GetProfile(userID2)
	if svcErr != nil {
		return nil, svcErr
	}

	a, b := models.SortPair(userID1, userID2)
	conversation := &models.Conversation{
		ID:           uuid.New().String(),
		ParticipantA: a,
		ParticipantB: b,
		Participants: models.StringSlice{userID1, userID2},
		ParticipantDetails: models.ParticipantDetailMap{
			user1.ID: user1.Snapshot(),
			user2.ID: user2.Snapshot(),
		},
		UnreadCount: models.CounterMap{
			userID1: 0,
			userID2: 0,
		},
		LastMessageTime: time.Now(),
	}

	if err := s.repo.Create(conversation); err != nil {
		// Unique pair index: a concurrent call won the race, use its thread
		winner, findErr := s.repo.FindByPair(userID1, userID2)
		if findErr == nil && winner != nil {
			return winner, nil
		}
		return nil, StoreError(err, "Failed to get or create conversation")
	}

	s.hub.Publish(TopicConversations(userID1))
	s.hub.Publish(TopicConversations(userID2))
	return conversation, nil
}

// Get returns a conversation by id
func (s *MessageService) Get(conversationID string) (*models.Conversation, *Error) {
	conversation, err := s.repo.GetByID(conversationID)
	if err != nil {
		return nil, StoreError(err, "Failed to get conversation")
	}
	if conversation == nil {
		return nil, NewError(KindNotFound, "Conversation not found")
	}
	return conversation, nil
}

// UserConversations lists a user's threads, most recent activity first
func (s *MessageService) UserConversations(userID string) ([]models.Conversation, *Error) {
	conversations, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, StoreError(err, "Failed to get conversations")
	}
	return conversations, nil
}

// SearchConversations filters a user's threads by the other participant's
// snapshot name, case-insensitively
func (s *MessageService) SearchConversations(userID, term string) ([]models.Conversation, *Error) {
	conversations, svcErr := s.UserConversations(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	needle := strings.ToLower(term)
	filtered := []models.Conversation{}
	for _, c := range conversations {
		other := c.OtherParticipant(userID)
		detail, ok := c.ParticipantDetails[other]
		if ok && strings.Contains(strings.ToLower(detail.Name), needle) {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

// Send appends an immutable message, then refreshes the thread preview and
// bumps the other participant's unread counter. Whitespace-only text is a
// silent no-op. The two writes are not mutually atomic: a crash in between
// leaves the message durable and the preview stale until the next send.
func (s *MessageService) Send(conversationID, senderID, senderName, text string) *Error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	conversation, svcErr := s.Get(conversationID)
	if svcErr != nil {
		return svcErr
	}

	now := time.Now()
	message := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		SenderName:     senderName,
		Text:           trimmed,
		Kind:           models.MessageKindText,
		Timestamp:      now,
	}

	if err := s.repo.CreateMessage(message); err != nil {
		return StoreError(err, "Failed to send message")
	}

	unread := models.CounterMap{}
	for k, v := range conversation.UnreadCount {
		unread[k] = v
	}
	otherID := conversation.OtherParticipant(senderID)
	if otherID != "" {
		unread[otherID]++
	}

	if err := s.repo.TouchLastMessage(conversationID, trimmed, now, unread); err != nil {
		// Message is durable; the stale preview self-heals on the next send
		log.Printf("Warning: failed to update conversation preview: %v", err)
	}

	s.hub.Publish(TopicMessages(conversationID))
	for _, participant := range conversation.Participants {
		s.hub.Publish(TopicConversations(participant))
	}
	return nil
}

// Messages returns the conversation log ordered by timestamp ascending
func (s *MessageService) Messages(conversationID string) ([]models.Message, *Error) {
	messages, err := s.repo.Messages(conversationID)
	if err != nil {
		return nil, StoreError(err, "Failed to get messages")
	}
	return messages, nil
}

// MarkRead zeroes the user's unread counter; idempotent
func (s *MessageService) MarkRead(conversationID, userID string) *Error {
	conversation, svcErr := s.Get(conversationID)
	if svcErr != nil {
		return svcErr
	}

	unread := models.CounterMap{}
	for k, v := range conversation.UnreadCount {
		unread[k] = v
	}
	unread[userID] = 0

	if err := s.repo.UpdateFields(conversationID, map[string]interface{}{
		"unread_count": unread,
	}); err != nil {
		return StoreError(err, "Failed to mark as read")
	}

	s.hub.Publish(TopicConversations(userID))
	return nil
}

// SubscribeConversations delivers the user's full thread list on every
// relevant change; same cancellation contract as MeetupService.Subscribe
func (s *MessageService) SubscribeConversations(userID string, callback func([]models.Conversation)) func() {
	deliver := serialized(func() {
		conversations, err := s.repo.ListForUser(userID)
		if err != nil {
			log.Printf("conversation subscription query failed: %v", err)
			return
		}
		callback(conversations)
	})

	unsubscribe := s.hub.Subscribe(TopicConversations(userID), deliver)
	deliver()
	return unsubscribe
}

// SubscribeMessages delivers a thread's full ordered log on every new message
func (s *MessageService) SubscribeMessages(conversationID string, callback func([]models.Message)) func() {
	deliver := serialized(func() {
		messages, err := s.repo.Messages(conversationID)
		if err != nil {
			log.Printf("message subscription query failed: %v", err)
			return
		}
		callback(messages)
	})

	unsubscribe := s.hub.Subscribe(TopicMessages(conversationID), deliver)
	deliver()
	return unsubscribe
}
