package syncws

import (
	"context"
	"encoding/json"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/FlashFitBack/internal/models"
	"github.com/sirupsen/logrus"
)

// Hub fans sync events out to the live connections of each user. Only Run
// writes to or closes a client's send channel.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	replies    chan reply
	queries    chan connectionQuery
	done       chan struct{}
	log        logrus.FieldLogger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

type delivery struct {
	userID  int64
	payload []byte
}

type reply struct {
	client  *Client
	payload []byte
}

type connectionQuery struct {
	userID int64
	result chan int
}

type Message struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	Timestamp string `json:"timestamp"`
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan delivery, 64),
		replies:    make(chan reply, 64),
		queries:    make(chan connectionQuery),
		done:       make(chan struct{}),
		log:        log,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					close(client.send)
				}
				delete(h.clients, userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case message := <-h.broadcast:
			for client := range h.clients[message.userID] {
				h.deliver(client, message.payload)
			}
		case r := <-h.replies:
			// Replies to a client the hub already dropped are discarded.
			if _, ok := h.clients[r.client.userID][r.client]; ok {
				h.deliver(r.client, r.payload)
			}
		case query := <-h.queries:
			query.result <- len(h.clients[query.userID])
		}
	}
}

// Register adds client to the hub. After Run has returned the client's send
// channel is closed straight away so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues an event for every connection of userID. Events are dropped
// rather than blocking the caller when the queue is full.
func (h *Hub) Publish(userID int64, event models.SyncEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Warn("sync hub encode event")
		return
	}

	select {
	case h.broadcast <- delivery{userID: userID, payload: payload}:
	default:
		h.log.WithField("user_id", userID).Warn("sync hub queue full, dropping event")
	}
}

func (h *Hub) connections(userID int64) int {
	query := connectionQuery{userID: userID, result: make(chan int, 1)}
	select {
	case h.queries <- query:
		return <-query.result
	case <-h.done:
		return 0
	}
}

// deliver never blocks the hub: a client whose buffer is full is dropped.
func (h *Hub) deliver(client *Client, payload []byte) {
	select {
	case client.send <- payload:
	default:
		h.log.WithField("user_id", client.userID).Warn("sync client too slow, disconnecting")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := set[client]; exists {
		delete(set, client)
		close(client.send)
	}
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.reply(Message{Type: "error", Content: "invalid message payload"})
			continue
		}
		if incoming.Type != "ping" {
			c.reply(Message{Type: "error", Content: "unsupported message type"})
			continue
		}
		c.reply(Message{Type: "pong"})
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// reply hands a message for this client to the hub, which owns the send
// channel. It returns without waiting once the hub has stopped.
func (c *Client) reply(message Message) {
	message.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.hub.replies <- reply{client: c, payload: payload}:
	case <-c.hub.done:
	}
}
