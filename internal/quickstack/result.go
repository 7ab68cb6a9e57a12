package quickstack

import (
	"encoding/json"
	"sort"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// Move records one transfer step.
type Move struct {
	SourceSlot  int              `json:"source_slot"`
	ContainerID string           `json:"container_id"`
	TargetSlot  int              `json:"target_slot"`
	Item        inventory.ItemID `json:"item"`
	Quality     int              `json:"quality,omitempty"`
	Qty         int              `json:"qty"`
	// Merged is false when the stack moved into an empty slot.
	Merged bool `json:"merged"`
}

// Result reports what a run changed. It is never modified after Run returns.
type Result struct {
	changed []int
	moves   []Move
	units   int
}

// ChangedSourceIndexes returns the source slots that were fully or partially
// emptied, ascending and without duplicates.
func (r *Result) ChangedSourceIndexes() []int {
	return append([]int(nil), r.changed...)
}

// Moves returns every transfer step in execution order.
func (r *Result) Moves() []Move {
	return append([]Move(nil), r.moves...)
}

// AnyItemsMoved reports whether the run changed anything.
func (r *Result) AnyItemsMoved() bool { return len(r.changed) > 0 }

// UnitsMoved sums the quantities of all moves.
func (r *Result) UnitsMoved() int { return r.units }

// MarshalJSON encodes the result for clients.
func (r *Result) MarshalJSON() ([]byte, error) {
	changed := r.changed
	if changed == nil {
		changed = []int{}
	}
	moves := r.moves
	if moves == nil {
		moves = []Move{}
	}
	return json.Marshal(struct {
		ChangedSlots []int  `json:"changed_slots"`
		Moves        []Move `json:"moves"`
		AnyMoved     bool   `json:"any_moved"`
		UnitsMoved   int    `json:"units_moved"`
	}{changed, moves, r.AnyItemsMoved(), r.units})
}

type resultBuilder struct {
	changed map[int]struct{}
	moves   []Move
	units   int
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{changed: make(map[int]struct{})}
}

func (b *resultBuilder) record(m Move) {
	b.changed[m.SourceSlot] = struct{}{}
	b.moves = append(b.moves, m)
	b.units += m.Qty
}

func (b *resultBuilder) build() *Result {
	changed := make([]int, 0, len(b.changed))
	for i := range b.changed {
		changed = append(changed, i)
	}
	sort.Ints(changed)
	return &Result{changed: changed, moves: b.moves, units: b.units}
}
