package network

import (
	"encoding/json"

	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/pkg/hex"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// Message types - Client → Server
const (
	MsgTypeJoin       = "join"
	MsgTypeLeave      = "leave"
	MsgTypePing       = "ping"
	MsgTypeMove       = "move"
	MsgTypeInventory  = "inventory"
	MsgTypeQuickStack = "quick_stack"
)

// Message types - Server → Client
const (
	MsgTypeWelcome          = "welcome"
	MsgTypePlayerJoined     = "player_joined"
	MsgTypePlayerLeft       = "player_left"
	MsgTypeSessionStatus    = "session_status"
	MsgTypeError            = "error"
	MsgTypePong             = "pong"
	MsgTypeInventoryState   = "inventory"
	MsgTypeQuickStackResult = "quick_stack_result"
)

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeInvalidPayload = "INVALID_PAYLOAD"
	ErrCodeUnknownMessage = "UNKNOWN_MESSAGE_TYPE"
	ErrCodeBusy           = "QUICK_STACK_BUSY"
	ErrCodeQuickStack     = "QUICK_STACK_FAILED"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// JoinPayload is sent by client to join the session
type JoinPayload struct {
	// Currently empty - join happens automatically after auth
}

// MovePayload moves the player to another tile
type MovePayload struct {
	Position hex.Axial `json:"position"`
}

// QuickStackPayload requests a quick stack into nearby containers.
// A nil Radius uses the server default; it is capped at that default.
type QuickStackPayload struct {
	Radius *int `json:"radius,omitempty"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	PlayerID      string        `json:"player_id"`
	Username      string        `json:"username"`
	SessionID     string        `json:"session_id"`
	SessionStatus SessionStatus `json:"session_status"`
}

// PlayerJoinedPayload notifies clients when a player joins
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// PlayerLeftPayload notifies clients when a player leaves
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
}

// InventoryPayload carries the full state of the player's carried inventory
type InventoryPayload struct {
	Position  hex.Axial          `json:"position"`
	Inventory inventory.Snapshot `json:"inventory"`
}

// QuickStackResultPayload reports a finished quick stack. It is sent even when
// nothing moved.
type QuickStackResultPayload struct {
	Result     *quickstack.Result `json:"result"`
	Containers []string           `json:"containers"` // IDs considered, nearest first
}

// SessionStatus represents the current session state
type SessionStatus struct {
	State          string `json:"state"`
	PlayerCount    int    `json:"player_count"`
	MaxPlayers     int    `json:"max_players"`
	ContainerCount int    `json:"container_count"`
	Uptime         int64  `json:"uptime"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
