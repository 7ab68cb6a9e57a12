package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSlotRange is returned for an index outside the inventory.
	ErrSlotRange = errors.New("inventory: slot index out of range")
	// ErrSlotOccupied is returned when placing into a non-empty slot.
	ErrSlotOccupied = errors.New("inventory: slot occupied")
	// ErrNoSpace is returned when no empty slot is left.
	ErrNoSpace = errors.New("inventory: no empty slot")
)

// Inventory is an ordered, fixed-length sequence of slots. Each slot is
// either empty or holds exactly one Stack.
type Inventory struct {
	ID    string  `json:"id"`
	Owner OwnerID `json:"owner,omitempty"`

	slots []*Stack

	// registry provides item metadata (stack limits, names).
	registry *Registry
}

// Option configures inventory construction.
type Option func(*Inventory)

// WithRegistry attaches an item registry used to resolve stack limits when
// stacks are placed without one.
func WithRegistry(reg *Registry) Option {
	return func(inv *Inventory) {
		inv.registry = reg
	}
}

// New creates an empty inventory with size slots.
func New(id string, owner OwnerID, size int, opts ...Option) *Inventory {
	if size < 0 {
		size = 0
	}
	inv := &Inventory{
		ID:    id,
		Owner: owner,
		slots: make([]*Stack, size),
	}
	applyOptions(inv, opts...)
	return inv
}

func applyOptions(inv *Inventory, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(inv)
		}
	}
}

// Registry returns the currently attached item registry.
func (inv *Inventory) Registry() *Registry { return inv.registry }

// SetRegistry attaches or replaces the item registry.
func (inv *Inventory) SetRegistry(reg *Registry) { inv.registry = reg }

// Len returns the number of slots, empty or not.
func (inv *Inventory) Len() int { return len(inv.slots) }

// At returns a copy of the stack in slot i and whether the slot is occupied.
// Out-of-range indexes report an empty slot.
func (inv *Inventory) At(i int) (Stack, bool) {
	if i < 0 || i >= len(inv.slots) || inv.slots[i] == nil {
		return Stack{}, false
	}
	return *inv.slots[i], true
}

// Set replaces the contents of slot i. A stack with Qty <= 0 clears the slot.
func (inv *Inventory) Set(i int, s Stack) error {
	if i < 0 || i >= len(inv.slots) {
		return fmt.Errorf("%w: %d of %d", ErrSlotRange, i, len(inv.slots))
	}
	if s.Qty <= 0 {
		inv.slots[i] = nil
		return nil
	}
	s = inv.normalize(s)
	if s.Qty > s.StackMax {
		return fmt.Errorf("qty exceeds stackMax: qty=%d stackMax=%d", s.Qty, s.StackMax)
	}
	inv.slots[i] = &s
	return nil
}

// Clear empties slot i.
func (inv *Inventory) Clear(i int) error {
	if i < 0 || i >= len(inv.slots) {
		return fmt.Errorf("%w: %d of %d", ErrSlotRange, i, len(inv.slots))
	}
	inv.slots[i] = nil
	return nil
}

// Put places s into slot i, which must be empty.
func (inv *Inventory) Put(i int, s Stack) error {
	if _, ok := inv.At(i); ok {
		return fmt.Errorf("%w: %d", ErrSlotOccupied, i)
	}
	return inv.Set(i, s)
}

// Add places s into the first empty slot and returns its index.
func (inv *Inventory) Add(s Stack) (int, error) {
	i := inv.FirstEmpty()
	if i < 0 {
		return -1, ErrNoSpace
	}
	if err := inv.Set(i, s); err != nil {
		return -1, err
	}
	return i, nil
}

// FirstEmpty returns the lowest empty slot index, or -1.
func (inv *Inventory) FirstEmpty() int {
	for i, s := range inv.slots {
		if s == nil {
			return i
		}
	}
	return -1
}

// Occupied returns the number of non-empty slots.
func (inv *Inventory) Occupied() int {
	n := 0
	for _, s := range inv.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// TotalQty sums the units of item across all slots, any quality.
func (inv *Inventory) TotalQty(item ItemID) int {
	total := 0
	for _, s := range inv.slots {
		if s != nil && s.Item == item {
			total += s.Qty
		}
	}
	return total
}

// Clone returns a deep copy sharing the registry.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{
		ID:       inv.ID,
		Owner:    inv.Owner,
		slots:    make([]*Stack, len(inv.slots)),
		registry: inv.registry,
	}
	for i, s := range inv.slots {
		if s != nil {
			cp := *s
			out.slots[i] = &cp
		}
	}
	return out
}

// normalize fills a missing StackMax from the registry, defaulting to 1.
func (inv *Inventory) normalize(s Stack) Stack {
	if s.StackMax > 0 {
		return s
	}
	if inv.registry != nil {
		return inv.registry.Normalize(s)
	}
	s.StackMax = 1
	return s
}

// SlotSnapshot is the wire form of one occupied slot.
type SlotSnapshot struct {
	Index int `json:"index"`
	Stack
}

// Snapshot is the wire form of an inventory sent to clients.
type Snapshot struct {
	ID    string         `json:"id"`
	Owner OwnerID        `json:"owner,omitempty"`
	Size  int            `json:"size"`
	Slots []SlotSnapshot `json:"slots"`
}

// Snapshot captures the occupied slots in index order.
func (inv *Inventory) Snapshot() Snapshot {
	ss := Snapshot{
		ID:    inv.ID,
		Owner: inv.Owner,
		Size:  len(inv.slots),
		Slots: make([]SlotSnapshot, 0, inv.Occupied()),
	}
	for i, s := range inv.slots {
		if s != nil {
			ss.Slots = append(ss.Slots, SlotSnapshot{Index: i, Stack: *s})
		}
	}
	return ss
}

// MarshalJSON encodes the inventory as its Snapshot.
func (inv *Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.Snapshot())
}

// FromSnapshot rebuilds an inventory from its wire form.
func FromSnapshot(ss Snapshot, opts ...Option) (*Inventory, error) {
	inv := New(ss.ID, ss.Owner, ss.Size, opts...)
	for _, slot := range ss.Slots {
		if err := inv.Put(slot.Index, slot.Stack); err != nil {
			return nil, err
		}
	}
	return inv, nil
}
