package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Client is one viewer connected to a live session's chat room.
type Client struct {
	UserID    uuid.UUID
	UserName  string
	SessionID uuid.UUID
	Conn      *websocket.Conn
}

type ChatMessage struct {
	SessionID uuid.UUID `json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}

var (
	rooms   = make(map[uuid.UUID]map[uuid.UUID]*Client)
	roomsMu sync.RWMutex

	Register   = make(chan *Client)
	Unregister = make(chan *Client)
	Broadcast  = make(chan *ChatMessage)
)

// RunHub routes chat messages to everyone watching the same live session.
// Messages are ephemeral; nothing is persisted.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client %s joined live session %s", client.UserID, client.SessionID)
			roomsMu.Lock()
			if rooms[client.SessionID] == nil {
				rooms[client.SessionID] = make(map[uuid.UUID]*Client)
			}
			rooms[client.SessionID][client.UserID] = client
			roomsMu.Unlock()

		case client := <-Unregister:
			log.Printf("Client %s left live session %s", client.UserID, client.SessionID)
			roomsMu.Lock()
			if room, ok := rooms[client.SessionID]; ok {
				if existing, ok := room[client.UserID]; ok && existing.Conn == client.Conn {
					delete(room, client.UserID)
				}
				if len(room) == 0 {
					delete(rooms, client.SessionID)
				}
			}
			roomsMu.Unlock()

		case message := <-Broadcast:
			roomsMu.RLock()
			for _, client := range rooms[message.SessionID] {
				if err := client.Conn.WriteJSON(message); err != nil {
					log.Printf("Error writing to client %s: %v", client.UserID, err)
				}
			}
			roomsMu.RUnlock()
		}
	}
}

// ViewerCount returns how many clients are in a session's room.
func ViewerCount(sessionID uuid.UUID) int {
	roomsMu.RLock()
	defer roomsMu.RUnlock()
	return len(rooms[sessionID])
}
