package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gravitas-games/stockpile/internal/network"
	"github.com/gravitas-games/stockpile/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	// WebSocket connection
	ws *websocket.Conn

	// Server reference
	server *Server

	// Player information (set after authentication)
	player *models.Player

	// Buffered channel for outbound messages
	send chan []byte

	// Is connection authenticated
	authenticated bool
	joined        bool

	closeOnce sync.Once
	done      chan struct{}
	logger    *zap.Logger
}

// NewConnection creates a new connection
func NewConnection(ws *websocket.Conn, server *Server, player *models.Player) *Connection {
	return &Connection{
		ws:            ws,
		server:        server,
		player:        player,
		send:          make(chan []byte, 256),
		authenticated: player != nil,
		done:          make(chan struct{}),
		logger:        server.logger.With(zap.String("player_id", player.ID)),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	// Set up connection parameters
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Start read and write pumps
	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.logger.Debug("failed to parse client message", zap.Error(err))
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("websocket write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	c.logger.Debug("received message", zap.String("type", msg.Type))

	if !c.joined && msg.Type != network.MsgTypeJoin && msg.Type != network.MsgTypePing {
		c.SendError("not_joined", "Join the session first")
		return
	}

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin()

	case network.MsgTypeLeave:
		c.handleLeave()

	case network.MsgTypePing:
		c.handlePing()

	case network.MsgTypeMove:
		c.handleMove(msg.Payload)

	case network.MsgTypeInventory:
		c.sendInventory()

	case network.MsgTypeQuickStack:
		c.handleQuickStack(msg.Payload)

	default:
		c.SendError(network.ErrCodeUnknownMessage, "Unknown message type")
	}
}

// handleJoin handles player join requests
func (c *Connection) handleJoin() {
	if !c.authenticated || c.player == nil {
		c.SendError("not_authenticated", "Connection not authenticated")
		return
	}

	c.player.Connected = true
	c.player.ConnectedAt = time.Now()
	c.player.SessionID = c.server.session.ID

	if err := c.server.session.AddPlayer(c.player, c); err != nil {
		c.logger.Warn("failed to add player to session", zap.Error(err))
		c.SendError("join_failed", err.Error())
		return
	}
	c.joined = true

	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeWelcome,
		Payload: network.WelcomePayload{
			PlayerID:      c.player.ID,
			Username:      c.player.Username,
			SessionID:     c.server.session.ID,
			SessionStatus: c.server.session.GetStatus(),
		},
	})
	c.sendInventory()

	// Broadcast player joined to all other players
	c.server.session.BroadcastExcept(c, &network.ServerMessage{
		Type: network.MsgTypePlayerJoined,
		Payload: network.PlayerJoinedPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
		},
	})
}

// handleLeave handles player leave requests
func (c *Connection) handleLeave() {
	if c.player == nil || !c.joined {
		return
	}
	c.joined = false
	c.server.session.RemovePlayer(c.player.ID)

	c.server.session.BroadcastMessage(&network.ServerMessage{
		Type: network.MsgTypePlayerLeft,
		Payload: network.PlayerLeftPayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
		},
	})
}

// handlePing handles ping requests
func (c *Connection) handlePing() {
	c.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypePong,
		Payload: map[string]interface{}{"timestamp": time.Now().Unix()},
	})
}

// handleMove updates the player's tile
func (c *Connection) handleMove(payload json.RawMessage) {
	var move network.MovePayload
	if err := json.Unmarshal(payload, &move); err != nil {
		c.SendError(network.ErrCodeInvalidPayload, "Invalid move payload")
		return
	}
	if err := c.server.session.MovePlayer(c.player.ID, move.Position); err != nil {
		c.SendError("move_failed", err.Error())
		return
	}
	c.sendInventory()
}

// handleQuickStack runs a quick stack and replies with the result followed by
// the updated inventory.
func (c *Connection) handleQuickStack(payload json.RawMessage) {
	var req network.QuickStackPayload
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &req); err != nil {
			c.SendError(network.ErrCodeInvalidPayload, "Invalid quick stack payload")
			return
		}
	}

	result, err := c.server.session.QuickStack(c.server.ctx, c.player.ID, req.Radius)
	if errors.Is(err, ErrBusy) {
		c.SendError(network.ErrCodeBusy, err.Error())
		return
	}
	if err != nil {
		c.logger.Warn("quick stack failed", zap.Error(err))
		c.SendError(network.ErrCodeQuickStack, err.Error())
		return
	}

	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeQuickStackResult, Payload: result})
	c.sendInventory()
}

func (c *Connection) sendInventory() {
	state, err := c.server.session.InventoryState(c.player.ID)
	if err != nil {
		c.SendError("inventory_unavailable", err.Error())
		return
	}
	c.SendMessage(&network.ServerMessage{Type: network.MsgTypeInventoryState, Payload: state})
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", zap.String("type", msg.Type))
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close leaves the session and stops the write pump. Safe to call twice.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.handleLeave()
		close(c.done)
	})
}
