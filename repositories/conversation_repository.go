// File: /repositories/conversation_repository.go
package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"tablemates-api/models"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindByPair looks up the unique thread for an unordered participant pair;
// returns (nil, nil) when none exists
func (r *ConversationRepository) FindByPair(userID1, userID2 string) (*models.Conversation, error) {
	a, b := models.SortPair(userID1, userID2)

	var conversation models.Conversation
	err := r.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

// GetByID returns (nil, nil) when the conversation is absent
func (r *ConversationRepository) GetByID(conversationID string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, "id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// ListForUser returns a user's threads ordered by most recent activity
func (r *ConversationRepository) ListForUser(userID string) ([]models.Conversation, error) {
	conversations := []models.Conversation{}
	err := r.db.
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_time DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *ConversationRepository) UpdateFields(conversationID string, fields map[string]interface{}) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", conversationID).Updates(fields).Error
}

func (r *ConversationRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// Messages returns a conversation's log ordered by timestamp ascending, with
// id as a stable tiebreak for messages created within the same instant
func (r *ConversationRepository) Messages(conversationID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// TouchLastMessage updates the thread preview after a send
func (r *ConversationRepository) TouchLastMessage(conversationID, preview string, at time.Time, unread models.CounterMap) error {
	return r.UpdateFields(conversationID, map[string]interface{}{
		"last_message":      preview,
		"last_message_time": at,
		"unread_count":      unread,
	})
}
