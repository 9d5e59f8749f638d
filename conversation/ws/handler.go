package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"island-npc-engine/backend/character/models"
	"island-npc-engine/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
	HandshakeTimeout: 10 * time.Second,
	ReadBufferSize:   1024,
	WriteBufferSize:  1024,
}

// Talker runs one dialogue exchange with a character.
type Talker interface {
	Converse(ctx context.Context, characterID, playerLine string) (string, error)
}

// CharacterLookup resolves characters for connection validation and replies.
type CharacterLookup interface {
	Get(id string) (*models.Character, bool)
}

// Message is the envelope for every websocket frame.
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// ChatTurn is the payload of chat frames in both directions.
type ChatTurn struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	ID          string
	CharacterID string
	Conn        *websocket.Conn
	Send        chan []byte
	Hub         *Hub
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	talker     Talker
	lookup     CharacterLookup
	log        *logger.Logger
	mu         sync.Mutex

	// engineMu serializes dialogue against the directory and character
	// records, shared with the HTTP handlers. The engine is not safe for
	// concurrent use.
	engineMu *sync.Mutex
}

func NewHub(talker Talker, lookup CharacterLookup, engineMu *sync.Mutex, log *logger.Logger) *Hub {
	if engineMu == nil {
		engineMu = &sync.Mutex{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		talker:     talker,
		lookup:     lookup,
		log:        log,
		engineMu:   engineMu,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug("Client registered", "client_id", client.ID, "character_id", client.CharacterID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.log.Debug("Client unregistered", "client_id", client.ID)
			}
			h.mu.Unlock()
		}
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageData, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("WebSocket read error", "client_id", c.ID, "error", err)
			}
			break
		}

		var message Message
		if err := json.Unmarshal(messageData, &message); err != nil {
			c.Hub.log.Warn("Error unmarshaling message", "client_id", c.ID, "error", err)
			continue
		}

		// Frames from one connection are handled in order; replies
		// reach the peer through the write pump.
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(message Message) {
	switch message.Type {
	case "chat":
		c.handleChatMessage(message)
	case "ping":
		c.sendMessage("pong", nil)
	default:
		c.Hub.log.Warn("Unknown message type", "type", message.Type)
	}
}

func (c *Client) handleChatMessage(message Message) {
	var chatContent struct {
		ID      string `json:"id"`
		Sender  string `json:"sender"`
		Content string `json:"content"`
	}

	contentBytes, err := json.Marshal(message.Content)
	if err != nil {
		c.Hub.log.Warn("Error marshaling content", "error", err)
		return
	}

	if err := json.Unmarshal(contentBytes, &chatContent); err != nil {
		c.Hub.log.Warn("Error unmarshaling chat content", "error", err)
		return
	}

	if chatContent.Sender != "player" {
		c.Hub.log.Warn("Received non-player message", "sender", chatContent.Sender)
		return
	}

	// Notify client that the character is composing a reply
	c.sendMessage("typing", map[string]interface{}{
		"is_typing": true,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c.Hub.engineMu.Lock()
	reply, err := c.Hub.talker.Converse(ctx, c.CharacterID, chatContent.Content)
	if err != nil {
		c.Hub.engineMu.Unlock()
		c.Hub.log.Error("Dialogue failed", "character_id", c.CharacterID, "error", err)
		c.sendErrorMessage("Failed to generate a reply")
		return
	}

	turn := ChatTurn{
		ID:        fmt.Sprintf("resp-%d", time.Now().UnixNano()),
		Sender:    "npc",
		Content:   reply,
		Timestamp: time.Now(),
	}
	if ch, ok := c.Hub.lookup.Get(c.CharacterID); ok {
		turn.Mood = ch.State.Mood
		turn.Phase = string(ch.Memory.Phase)
	}
	c.Hub.engineMu.Unlock()

	c.sendMessage("chat", turn)
}

func (c *Client) sendMessage(messageType string, content interface{}) {
	message := Message{
		Type:    messageType,
		Content: content,
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		c.Hub.log.Error("Error marshaling message", "error", err)
		return
	}

	c.Send <- messageJSON
}

func (c *Client) sendErrorMessage(errorText string) {
	c.sendMessage("error", map[string]string{
		"message": errorText,
	})
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

			// Drain any queued messages as separate frames
			n := len(c.Send)
			for i := 0; i < n; i++ {
				extraMsg := <-c.Send
				if err := c.Conn.WriteMessage(websocket.TextMessage, extraMsg); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades a request to a websocket dialogue connection.
func ServeWs(hub *Hub, c *gin.Context) {
	characterID := c.Query("characterId")
	if characterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "characterId is required"})
		return
	}

	clientID := c.Query("clientId")
	if clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clientId is required"})
		return
	}

	hub.engineMu.Lock()
	_, known := hub.lookup.Get(characterID)
	hub.engineMu.Unlock()
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "character not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.Error("Error upgrading connection", "error", err)
		return
	}

	conn.EnableWriteCompression(true)

	client := &Client{
		ID:          clientID,
		CharacterID: characterID,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Hub:         hub,
	}

	client.Hub.register <- client
	hub.log.Info("WebSocket connection established", "client_id", clientID, "character_id", characterID)

	go client.WritePump()
	go client.ReadPump()
}
