package inventory

import (
	"errors"
	"sort"
	"sync"
)

// ItemDetails captures catalog metadata about an item. MaxStack is the only
// field the consolidation logic depends on.
type ItemDetails struct {
	ID          ItemID            `json:"id" yaml:"id"`
	NumericID   RegistryID        `json:"numericId,omitempty" yaml:"numeric_id,omitempty"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	Category    string            `json:"category,omitempty" yaml:"category,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	MaxStack    int               `json:"maxStack,omitempty" yaml:"max_stack,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Registry stores item details keyed by ItemID and provides numeric handles for
// compact storage.
type Registry struct {
	mu     sync.RWMutex
	items  map[ItemID]ItemDetails
	byID   map[RegistryID]ItemID
	nextID RegistryID
}

// NewRegistry constructs an empty registry and optionally seeds it with
// initial item details.
func NewRegistry(details ...ItemDetails) *Registry {
	r := &Registry{
		items: make(map[ItemID]ItemDetails, len(details)),
		byID:  make(map[RegistryID]ItemID, len(details)),
	}
	for _, d := range details {
		_ = r.RegisterDetails(d) // ignore duplicates during seed
	}
	return r
}

// RegisterDetails inserts or updates metadata for an item. The ID must be
// non-empty.
func (r *Registry) RegisterDetails(details ItemDetails) error {
	if details.ID == "" {
		return errors.New("inventory: item details missing id")
	}
	if details.MaxStack < 0 {
		return errors.New("inventory: max stack must not be negative")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.items == nil {
		r.items = make(map[ItemID]ItemDetails)
	}
	if r.byID == nil {
		r.byID = make(map[RegistryID]ItemID)
	}

	existing, exists := r.items[details.ID]
	if exists {
		if details.NumericID == 0 {
			details.NumericID = existing.NumericID
		} else if existing.NumericID != 0 && existing.NumericID != details.NumericID {
			return errors.New("inventory: numeric id mismatch for existing item")
		}
	}

	if details.NumericID == 0 {
		r.nextID++
		details.NumericID = r.nextID
	} else {
		if details.NumericID <= 0 {
			return errors.New("inventory: numeric id must be positive")
		}
		if owner, collision := r.byID[details.NumericID]; collision && owner != details.ID {
			return errors.New("inventory: numeric id already assigned to another item")
		}
		if details.NumericID > r.nextID {
			r.nextID = details.NumericID
		}
	}

	r.items[details.ID] = details
	r.byID[details.NumericID] = details.ID
	return nil
}

// Lookup returns details for the provided ID, if present.
func (r *Registry) Lookup(id ItemID) (ItemDetails, bool) {
	if r == nil {
		return ItemDetails{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	details, ok := r.items[id]
	return details, ok
}

// GetRegistryID returns the numeric registry identifier for the provided item.
func (r *Registry) GetRegistryID(id ItemID) (RegistryID, bool) {
	details, ok := r.Lookup(id)
	if !ok || details.NumericID == 0 {
		return 0, false
	}
	return details.NumericID, true
}

// LookupByRegistryID returns item details using the numeric registry ID.
func (r *Registry) LookupByRegistryID(id RegistryID) (ItemDetails, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byID[id]
	if !ok {
		return ItemDetails{}, false
	}
	details, exists := r.items[key]
	return details, exists
}

// StackMaxFor returns the catalog stack limit for an item, or false if the
// item is unknown or declares none.
func (r *Registry) StackMaxFor(id ItemID) (int, bool) {
	details, ok := r.Lookup(id)
	if !ok || details.MaxStack <= 0 {
		return 0, false
	}
	return details.MaxStack, true
}

// Normalize fills a missing StackMax from the catalog, defaulting to 1.
func (r *Registry) Normalize(s Stack) Stack {
	if s.StackMax > 0 {
		return s
	}
	if limit, ok := r.StackMaxFor(s.Item); ok {
		s.StackMax = limit
		return s
	}
	s.StackMax = 1
	return s
}

// CanMerge reports whether two stacks may share a slot: the item must be
// catalogued and both item and quality must match. It is an equivalence
// relation over catalogued items.
func (r *Registry) CanMerge(a, b Stack) bool {
	if !SameKind(a, b) {
		return false
	}
	_, ok := r.Lookup(a.Item)
	return ok
}

// Export copies registry contents into a slice sorted by NumericID, suitable
// for sending to clients.
func (r *Registry) Export() []ItemDetails {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.items) == 0 {
		return nil
	}
	out := make([]ItemDetails, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NumericID != out[j].NumericID {
			return out[i].NumericID < out[j].NumericID
		}
		return out[i].ID < out[j].ID
	})
	return out
}
