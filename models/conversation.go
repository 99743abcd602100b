// File: /models/conversation.go
package models

import (
	"time"
)

const (
	MessageKindText  = "text"
	MessageKindVoice = "voice"
	MessageKindImage = "image"
)

// Conversation is a 1:1 messaging thread. ParticipantA/ParticipantB hold the
// sorted pair of user ids; the composite unique index guarantees at most one
// thread per unordered pair, so concurrent get-or-create calls collide on the
// index instead of producing duplicates.
type Conversation struct {
	ID                 string               `json:"id" gorm:"primaryKey;size:191"`
	ParticipantA       string               `json:"-" gorm:"not null;size:191;uniqueIndex:idx_conversation_pair;index"`
	ParticipantB       string               `json:"-" gorm:"not null;size:191;uniqueIndex:idx_conversation_pair;index"`
	Participants       StringSlice          `json:"participants" gorm:"type:json"`
	ParticipantDetails ParticipantDetailMap `json:"participant_details" gorm:"type:json"`
	LastMessage        string               `json:"last_message" gorm:"size:500"`
	LastMessageTime    time.Time            `json:"last_message_time" gorm:"index"`
	UnreadCount        CounterMap           `json:"unread_count" gorm:"type:json"`
	CreatedAt          time.Time            `json:"created_at"`
}

// SortPair orders two user ids canonically for the unique pair index
func SortPair(userID1, userID2 string) (string, string) {
	if userID1 > userID2 {
		return userID2, userID1
	}
	return userID1, userID2
}

// OtherParticipant returns the participant that is not the given user
func (c *Conversation) OtherParticipant(userID string) string {
	for _, id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is an immutable entry in a conversation's log, ordered by timestamp
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	ConversationID string    `json:"conversation_id" gorm:"not null;size:191;index"`
	SenderID       string    `json:"sender_id" gorm:"not null;size:191"`
	SenderName     string    `json:"sender_name" gorm:"size:255"`
	Text           string    `json:"text" gorm:"type:text"`
	Kind           string    `json:"kind" gorm:"size:20;default:'text'"`
	Timestamp      time.Time `json:"timestamp" gorm:"index"`
	Read           bool      `json:"read" gorm:"default:false"`
}
