// File: /controllers/ws_controller.go
package controllers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tablemates-api/middleware"
	"tablemates-api/models"
	"tablemates-api/repositories"
	"tablemates-api/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect cross-origin
	},
}

// WSController streams live query snapshots over WebSocket. Each connection
// carries exactly one subscription; closing the socket cancels it, which is
// what releases the underlying hub registration.
type WSController struct {
	meetups   *services.MeetupService
	messages  *services.MessageService
	jwtSecret string
}

func NewWSController(meetups *services.MeetupService, messages *services.MessageService, jwtSecret string) *WSController {
	return &WSController{
		meetups:   meetups,
		messages:  messages,
		jwtSecret: jwtSecret,
	}
}

type wsEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// authenticate reads the token query parameter; websocket clients cannot set
// an Authorization header from the browser API
func (wc *WSController) authenticate(c *gin.Context) (string, bool) {
	claims, err := middleware.ParseToken(c.Query("token"), wc.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return "", false
	}
	return claims.UserID, true
}

// MeetupsFeed streams the filtered meetup list on every change
func (wc *WSController) MeetupsFeed(c *gin.Context) {
	if _, ok := wc.authenticate(c); !ok {
		return
	}

	filter := repositories.MeetupFilter{
		Status:    c.Query("status"),
		Date:      c.Query("date"),
		CreatedBy: c.Query("created_by"),
	}

	wc.stream(c, func(send chan wsEvent) func() {
		return wc.meetups.Subscribe(filter, func(meetups []models.Meetup) {
			trySend(send, wsEvent{Type: "meetups", Data: meetups})
		})
	})
}

// ConversationsFeed streams the caller's thread list on every change
func (wc *WSController) ConversationsFeed(c *gin.Context) {
	userID, ok := wc.authenticate(c)
	if !ok {
		return
	}

	wc.stream(c, func(send chan wsEvent) func() {
		return wc.messages.SubscribeConversations(userID, func(conversations []models.Conversation) {
			trySend(send, wsEvent{Type: "conversations", Data: conversations})
		})
	})
}

// MessagesFeed streams one conversation's ordered log on every new message
func (wc *WSController) MessagesFeed(c *gin.Context) {
	userID, ok := wc.authenticate(c)
	if !ok {
		return
	}

	conversation, svcErr := wc.messages.Get(c.Param("id"))
	if svcErr != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	if !conversation.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant of this conversation"})
		return
	}

	wc.stream(c, func(send chan wsEvent) func() {
		return wc.messages.SubscribeMessages(conversation.ID, func(messages []models.Message) {
			trySend(send, wsEvent{Type: "messages", Data: messages})
		})
	})
}

// stream upgrades the connection, wires the subscription to a send channel,
// and pumps snapshots until the peer goes away. The unsubscribe handle is
// invoked exactly once on teardown.
func (wc *WSController) stream(c *gin.Context, subscribe func(chan wsEvent) func()) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	send := make(chan wsEvent, 16)
	unsubscribe := subscribe(send)

	done := make(chan struct{})

	// Read pump: we never expect client frames, but reading is how the
	// close handshake and dropped connections are detected
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		unsubscribe()
		conn.Close()
	}()

	for {
		select {
		case event := <-send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// trySend drops the oldest pending snapshot when the client cannot keep up;
// every snapshot supersedes the previous one anyway
func trySend(send chan wsEvent, event wsEvent) {
	for {
		select {
		case send <- event:
			return
		default:
			select {
			case <-send:
			default:
			}
		}
	}
}
