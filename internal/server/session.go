package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gravitas-games/stockpile/internal/config"
	"github.com/gravitas-games/stockpile/internal/metrics"
	"github.com/gravitas-games/stockpile/internal/network"
	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/internal/world"
	"github.com/gravitas-games/stockpile/pkg/hex"
	"github.com/gravitas-games/stockpile/pkg/inventory"
	"github.com/gravitas-games/stockpile/pkg/models"
)

// ErrUnknownPlayer is returned for requests from players not in the session
var ErrUnknownPlayer = errors.New("player not in session")

// ErrSessionFull is returned when MaxPlayers is reached
var ErrSessionFull = errors.New("session full")

// Session represents a game session
type Session struct {
	ID        string
	CreatedAt time.Time

	// Player management
	players     map[string]*models.Player       // playerID -> Player
	connections map[string]*Connection          // playerID -> Connection
	inventories map[string]*inventory.Inventory // playerID -> carried items, kept across reconnects
	mu          sync.RWMutex

	// Storage state. stockMu guards every inventory in the session.
	world     *world.World
	registry  *inventory.Registry
	allocator *quickstack.Allocator
	stockMu   sync.Mutex

	locker   *QuickStackLocker
	recorder *metrics.Recorder
	logger   *zap.Logger
	config   *config.Config
}

// NewSession creates a new game session
func NewSession(id string, cfg *config.Config, locker *QuickStackLocker, recorder *metrics.Recorder, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session_id", id))

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to build item catalog: %w", err)
	}

	session := &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		players:     make(map[string]*models.Player),
		connections: make(map[string]*Connection),
		inventories: make(map[string]*inventory.Inventory),
		world:       world.New(logger),
		registry:    reg,
		locker:      locker,
		recorder:    recorder,
		logger:      logger,
		config:      cfg,
		allocator: quickstack.New(
			quickstack.WithMerge(reg.CanMerge),
			quickstack.WithLogger(logger),
			quickstack.WithRecorder(recorder),
			quickstack.WithPickOrder(cfg.QuickStack.PickOrder()),
		),
	}

	if cfg.Session.SeedSampleBase {
		for _, c := range inventory.SampleBase(reg) {
			if err := session.world.Place(c); err != nil {
				return nil, fmt.Errorf("failed to place %s: %w", c.ID, err)
			}
		}
	}

	logger.Info("session created", zap.Int("containers", session.world.Len()))
	return session, nil
}

// World returns the session's container map
func (s *Session) World() *world.World { return s.world }

// Registry returns the item catalog
func (s *Session) Registry() *inventory.Registry { return s.registry }

// AddPlayer adds a player to the session and attaches their inventory
func (s *Session) AddPlayer(player *models.Player, conn *Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, rejoin := s.players[player.ID]; !rejoin && len(s.players) >= s.config.Session.MaxPlayers {
		return ErrSessionFull
	}

	inv, exists := s.inventories[player.ID]
	if !exists {
		inv = s.newInventory(player)
		s.inventories[player.ID] = inv
	}
	player.Inventory = inv

	s.players[player.ID] = player
	s.connections[player.ID] = conn

	s.logger.Info("player joined",
		zap.String("player_id", player.ID),
		zap.String("username", player.Username),
	)
	return nil
}

func (s *Session) newInventory(player *models.Player) *inventory.Inventory {
	id := "player:" + player.ID
	if s.config.Session.SeedSampleBase {
		return inventory.SampleLoadout(id, player.OwnerID(), s.registry)
	}
	return inventory.New(id, player.OwnerID(), s.config.Session.InventorySize, inventory.WithRegistry(s.registry))
}

// RemovePlayer removes a player from the session. Their inventory is kept.
func (s *Session) RemovePlayer(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, exists := s.players[playerID]; exists {
		s.logger.Info("player left",
			zap.String("player_id", playerID),
			zap.String("username", player.Username),
		)
		delete(s.players, playerID)
		delete(s.connections, playerID)
	}
}

// GetPlayer retrieves a player by ID
func (s *Session) GetPlayer(playerID string) (*models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, exists := s.players[playerID]
	return player, exists
}

// GetPlayers returns all players in the session
func (s *Session) GetPlayers() []*models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*models.Player, 0, len(s.players))
	for _, player := range s.players {
		players = append(players, player)
	}
	return players
}

// MovePlayer sets a player's tile
func (s *Session) MovePlayer(playerID string, pos hex.Axial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, exists := s.players[playerID]
	if !exists {
		return ErrUnknownPlayer
	}
	player.Position = pos
	return nil
}

// InventoryState returns the player's position and inventory snapshot
func (s *Session) InventoryState(playerID string) (network.InventoryPayload, error) {
	s.mu.RLock()
	player, exists := s.players[playerID]
	var (
		pos hex.Axial
		inv *inventory.Inventory
	)
	if exists {
		pos, inv = player.Position, player.Inventory
	}
	s.mu.RUnlock()
	if !exists {
		return network.InventoryPayload{}, ErrUnknownPlayer
	}

	s.stockMu.Lock()
	defer s.stockMu.Unlock()
	return network.InventoryPayload{Position: pos, Inventory: inv.Snapshot()}, nil
}

// QuickStack moves the player's stackable items into matching stacks of the
// accessible containers within radius. A nil radius uses the configured range;
// larger values are capped to it.
func (s *Session) QuickStack(ctx context.Context, playerID string, radius *int) (network.QuickStackResultPayload, error) {
	s.mu.RLock()
	player, exists := s.players[playerID]
	var (
		pos hex.Axial
		inv *inventory.Inventory
	)
	if exists {
		pos, inv = player.Position, player.Inventory
	}
	s.mu.RUnlock()
	if !exists {
		return network.QuickStackResultPayload{}, ErrUnknownPlayer
	}

	r := s.config.QuickStack.Range
	if radius != nil {
		if *radius < 0 {
			return network.QuickStackResultPayload{}, fmt.Errorf("radius must not be negative, got %d", *radius)
		}
		if *radius < r {
			r = *radius
		}
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, playerID)
		switch {
		case errors.Is(err, ErrBusy):
			s.recorder.RunBusy()
			return network.QuickStackResultPayload{}, err
		case err != nil:
			// Fail open. stockMu still serializes this instance.
			s.logger.Warn("quick stack lock unavailable", zap.String("player_id", playerID), zap.Error(err))
		default:
			defer func() {
				if err := unlock(context.Background()); err != nil {
					s.logger.Warn("quick stack unlock failed", zap.String("player_id", playerID), zap.Error(err))
				}
			}()
		}
	}

	containers := world.Accessible(s.world.ContainersNear(pos, r), player.OwnerID())
	ids := make([]string, len(containers))
	for i, c := range containers {
		ids[i] = c.ID
	}

	s.stockMu.Lock()
	res, err := s.allocator.Run(inv, containers, s.config.QuickStack.Eligibility())
	s.stockMu.Unlock()
	if err != nil {
		return network.QuickStackResultPayload{}, err
	}

	s.logger.Info("quick stack",
		zap.String("player_id", playerID),
		zap.Int("radius", r),
		zap.Int("containers", len(containers)),
		zap.Ints("changed_slots", res.ChangedSourceIndexes()),
		zap.Int("units_moved", res.UnitsMoved()),
	)
	return network.QuickStackResultPayload{Result: res, Containers: ids}, nil
}

// BroadcastMessage sends a message to all connected players
func (s *Session) BroadcastMessage(msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		conn.SendMessage(msg)
	}
}

// BroadcastExcept sends a message to all players except the specified connection
func (s *Session) BroadcastExcept(exclude *Connection, msg *network.ServerMessage) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, conn := range s.connections {
		if conn != exclude {
			conn.SendMessage(msg)
		}
	}
}

// GetStatus returns the current session status
func (s *Session) GetStatus() network.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := "waiting"
	if len(s.players) > 0 {
		state = "running"
	}
	return network.SessionStatus{
		State:          state,
		PlayerCount:    len(s.players),
		MaxPlayers:     s.config.Session.MaxPlayers,
		ContainerCount: s.world.Len(),
		Uptime:         int64(time.Since(s.CreatedAt).Seconds()),
	}
}
