// File: /controllers/message_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tablemates-api/services"
	"tablemates-api/utils"
)

type MessageController struct {
	messages *services.MessageService
}

func NewMessageController(messages *services.MessageService) *MessageController {
	return &MessageController{messages: messages}
}

type StartConversationRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

// StartConversation returns the unique thread with the other user, creating
// it on first contact
func (mc *MessageController) StartConversation(c *gin.Context) {
	userID := c.GetString("user_id")

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.OtherUserID == userID {
		utils.SendValidationError(c, "Cannot start a conversation with yourself")
		return
	}

	conversation, svcErr := mc.messages.GetOrCreateConversation(userID, req.OtherUserID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, conversation)
}

func (mc *MessageController) GetConversations(c *gin.Context) {
	userID := c.GetString("user_id")

	if term := c.Query("q"); term != "" {
		conversations, svcErr := mc.messages.SearchConversations(userID, term)
		if svcErr != nil {
			utils.SendServiceError(c, svcErr)
			return
		}
		c.JSON(http.StatusOK, conversations)
		return
	}

	conversations, svcErr := mc.messages.UserConversations(userID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (mc *MessageController) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")

	conversation, svcErr := mc.messages.Get(c.Param("id"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	if !conversation.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this conversation"})
		return
	}

	messages, svcErr := mc.messages.Messages(conversation.ID)
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (mc *MessageController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Blank text never reaches the coordinator
	if strings.TrimSpace(req.Text) == "" {
		utils.SendValidationError(c, "Message text cannot be empty")
		return
	}

	conversation, svcErr := mc.messages.Get(c.Param("id"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	if !conversation.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this conversation"})
		return
	}

	senderName := ""
	if detail, ok := conversation.ParticipantDetails[userID]; ok {
		senderName = detail.Name
	}

	if svcErr := mc.messages.Send(conversation.ID, userID, senderName, req.Text); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent"})
}

func (mc *MessageController) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")

	conversation, svcErr := mc.messages.Get(c.Param("id"))
	if svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}
	if !conversation.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this conversation"})
		return
	}

	if svcErr := mc.messages.MarkRead(conversation.ID, userID); svcErr != nil {
		utils.SendServiceError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}
