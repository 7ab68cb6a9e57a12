package world

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/gravitas-games/stockpile/pkg/hex"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

var (
	// ErrTileOccupied is returned when a container is placed on a tile that
	// already holds one.
	ErrTileOccupied = errors.New("world: tile occupied")
	// ErrDuplicateID is returned when a container ID is already placed.
	ErrDuplicateID = errors.New("world: duplicate container id")
	// ErrNotFound is returned when removing an unknown container.
	ErrNotFound = errors.New("world: container not found")
)

// World tracks placed storage containers on the hex grid. One container may
// occupy a tile.
type World struct {
	mu         sync.RWMutex
	containers map[string]*inventory.Container
	tiles      map[hex.Axial]*inventory.Container
	logger     *zap.Logger
}

// New creates an empty world
func New(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		containers: make(map[string]*inventory.Container),
		tiles:      make(map[hex.Axial]*inventory.Container),
		logger:     logger,
	}
}

// Place puts a container on its Position tile.
func (w *World) Place(c *inventory.Container) error {
	if c == nil {
		return errors.New("world: nil container")
	}
	if err := c.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.containers[c.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, c.ID)
	}
	if other, exists := w.tiles[c.Position]; exists {
		return fmt.Errorf("%w: %v holds %s", ErrTileOccupied, c.Position, other.ID)
	}
	w.containers[c.ID] = c
	w.tiles[c.Position] = c

	w.logger.Debug("container placed",
		zap.String("container_id", c.ID),
		zap.String("kind", string(c.Kind)),
		zap.Int("q", c.Position.Q),
		zap.Int("r", c.Position.R),
	)
	return nil
}

// Remove takes a container off the map and returns it.
func (w *World) Remove(id string) (*inventory.Container, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, exists := w.containers[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(w.containers, id)
	delete(w.tiles, c.Position)
	return c, nil
}

// Get returns a placed container by ID
func (w *World) Get(id string) (*inventory.Container, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, exists := w.containers[id]
	return c, exists
}

// Len returns the number of placed containers
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.containers)
}

// ContainersNear returns containers within radius hex steps of pos, nearest
// first and then by ID.
func (w *World) ContainersNear(pos hex.Axial, radius int) []*inventory.Container {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var found []*inventory.Container
	// Walk the disk while it is smaller than the container set.
	if area := 1 + 3*radius*(radius+1); radius >= 0 && area <= len(w.containers) {
		for _, tile := range hex.Disk(pos, radius) {
			if c, ok := w.tiles[tile]; ok {
				found = append(found, c)
			}
		}
	} else if radius >= 0 {
		for _, c := range w.containers {
			if hex.DistanceAxial(pos, c.Position) <= radius {
				found = append(found, c)
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		di := hex.DistanceAxial(pos, found[i].Position)
		dj := hex.DistanceAxial(pos, found[j].Position)
		if di != dj {
			return di < dj
		}
		return found[i].ID < found[j].ID
	})
	return found
}

// Accessible keeps the containers player may use: unowned ones and their own.
func Accessible(containers []*inventory.Container, player inventory.OwnerID) []*inventory.Container {
	out := make([]*inventory.Container, 0, len(containers))
	for _, c := range containers {
		if c.Owner == "" || c.Owner == player {
			out = append(out, c)
		}
	}
	return out
}
