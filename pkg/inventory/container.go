package inventory

import (
	"errors"

	"github.com/gravitas-games/stockpile/pkg/hex"
)

// ContainerOption configures container construction.
type ContainerOption func(*Container)

// WithOwner restricts a container to an owner. Unowned containers are shared.
func WithOwner(owner OwnerID) ContainerOption {
	return func(c *Container) { c.Owner = owner }
}

// WithPosition places the container on a hex tile.
func WithPosition(pos hex.Axial) ContainerOption {
	return func(c *Container) { c.Position = pos }
}

// WithCapacity bounds the number of occupied slots below the slot count.
func WithCapacity(capacity int) ContainerOption {
	return func(c *Container) { c.Capacity = capacity }
}

// WithAccept installs an item filter.
func WithAccept(accept func(Stack) bool) ContainerOption {
	return func(c *Container) { c.Accept = accept }
}

// AcceptItems returns a filter accepting only the listed items.
func AcceptItems(items ...ItemID) func(Stack) bool {
	allowed := make(map[ItemID]struct{}, len(items))
	for _, it := range items {
		allowed[it] = struct{}{}
	}
	return func(s Stack) bool {
		_, ok := allowed[s.Item]
		return ok
	}
}

// NewContainer creates a container of the given kind with size slots.
// Capacity defaults to the slot count.
func NewContainer(id string, kind Kind, size int, opts ...ContainerOption) *Container {
	c := &Container{
		ID:        id,
		Kind:      kind,
		Capacity:  size,
		Inventory: New(id, "", size),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.Inventory.Owner = c.Owner
	return c
}

// Accepts reports whether the container takes stacks like s.
func (c *Container) Accepts(s Stack) bool {
	if c.Accept == nil {
		return true
	}
	return c.Accept(s)
}

// HasSpace reports whether another distinct stack fits.
func (c *Container) HasSpace() bool {
	if c.Inventory == nil {
		return false
	}
	return c.Inventory.Occupied() < c.Capacity && c.Inventory.FirstEmpty() >= 0
}

// Validate checks structural consistency.
func (c *Container) Validate() error {
	if c.ID == "" {
		return errors.New("inventory: container missing id")
	}
	if c.Inventory == nil {
		return errors.New("inventory: container missing inventory")
	}
	if c.Capacity < 0 {
		return errors.New("inventory: negative capacity")
	}
	return nil
}
