package inventory

// Package inventory provides a minimal, item-agnostic slot inventory.
// It only tracks item identifiers, qualities, quantities and per-stack
// limits, plus the storage containers that hold such inventories.

import "github.com/gravitas-games/stockpile/pkg/hex"

// ItemID represents an application-defined identifier for an item.
// The inventory system does not interpret this value.
type ItemID string

// OwnerID represents an application-defined owner identifier.
// Can be user id, character id, etc.
type OwnerID string

// RegistryID is a numeric handle suitable for compact storage.
// IDs start at 1 and increment as new items are registered unless explicitly
// provided via ItemDetails.NumericID.
type RegistryID int64

// Stack represents an item stack occupying one slot.
type Stack struct {
	Item ItemID `json:"item" yaml:"item"`
	// Quality distinguishes otherwise identical items (e.g. crafted grades).
	// Stacks of different quality never merge under the default rules.
	Quality int `json:"quality,omitempty" yaml:"quality,omitempty"`
	Qty     int `json:"qty" yaml:"qty"`
	// StackMax indicates the per-slot maximum count allowed for this item.
	// Zero means "unknown"; Normalize resolves it from a registry or
	// defaults to 1.
	StackMax int `json:"stackMax,omitempty" yaml:"stack_max,omitempty"`
}

// Full reports whether the stack has reached its per-slot maximum.
func (s Stack) Full() bool { return s.Qty >= s.StackMax }

// Room returns how many more units fit into this stack.
func (s Stack) Room() int {
	if s.Qty >= s.StackMax {
		return 0
	}
	return s.StackMax - s.Qty
}

// Stackable reports whether more than one unit can share a slot.
func (s Stack) Stackable() bool { return s.StackMax > 1 }

// SameKind is the default compatibility rule: equal item and quality.
func SameKind(a, b Stack) bool {
	return a.Item == b.Item && a.Quality == b.Quality
}

// Kind tags what a container structurally is. Eligibility for bulk
// transfers is resolved from the kind, never from the concrete type.
type Kind string

const (
	KindChest       Kind = "chest"
	KindColdStorage Kind = "cold_storage"
	KindSilo        Kind = "silo"
	KindCargoHold   Kind = "cargo_hold"
	KindWarehouse   Kind = "warehouse"
	// KindShippingBin sells whatever goes in; it never stores.
	KindShippingBin Kind = "shipping_bin"
	// KindProcessor is a machine input hopper.
	KindProcessor Kind = "processor"
)

// Capability is a bit set of what a container kind can do.
type Capability uint8

const (
	// CapStorage means the container keeps items for later retrieval.
	CapStorage Capability = 1 << iota
	// CapReceive means items can be inserted from outside.
	CapReceive
	// CapMobile means the container moves with a unit.
	CapMobile
)

// Has reports whether every bit of c2 is set in c.
func (c Capability) Has(c2 Capability) bool { return c&c2 == c2 }

// Capabilities resolves the capability set of a kind. Unknown kinds are
// treated as general storage.
func (k Kind) Capabilities() Capability {
	switch k {
	case KindShippingBin, KindProcessor:
		return CapReceive
	case KindCargoHold:
		return CapStorage | CapReceive | CapMobile
	default:
		return CapStorage | CapReceive
	}
}

// Container is a storage entity with its own bounded inventory.
type Container struct {
	ID       string
	Kind     Kind
	Owner    OwnerID
	Position hex.Axial
	// Capacity bounds the number of occupied slots, not units.
	Capacity  int
	Inventory *Inventory
	// Accept lets a container refuse an item regardless of space.
	// A nil Accept accepts everything.
	Accept func(Stack) bool
}
