// Package quickstack consolidates a carried inventory into nearby storage.
//
// A run groups the source inventory's stackable slots into equivalence
// classes, maps each class to the eligible containers already holding that
// item, and moves units greedily: scarce classes first, fullest containers
// first. Only containers that already hold an item receive more of it.
//
// Compatibility is decided by a MergeFunc, which is assumed to be an
// equivalence relation for the duration of a run. Groups are keyed by the
// first slot of each class; a non-transitive predicate makes the grouping
// depend on slot order.
package quickstack

import (
	"sort"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

// MergeFunc reports whether two stacks may share a slot.
type MergeFunc func(a, b inventory.Stack) bool

// Group is one equivalence class of mergeable stacks within a single
// inventory, split by whether each member slot has room left.
// A Group is a snapshot; after the inventory changes, build a new one.
type Group struct {
	rep     inventory.Stack
	full    []int
	notFull []int
	qty     map[int]int
	units   int
}

func newGroup(rep inventory.Stack) Group {
	rep.Qty = 0
	return Group{rep: rep, qty: make(map[int]int)}
}

// add classifies slot idx holding st, replacing any earlier classification.
func (g *Group) add(idx int, st inventory.Stack) {
	g.full = removeIndex(g.full, idx)
	g.notFull = removeIndex(g.notFull, idx)
	if g.qty == nil {
		g.qty = make(map[int]int)
	}
	if prev, ok := g.qty[idx]; ok {
		g.units -= prev
	}
	g.qty[idx] = st.Qty
	g.units += st.Qty
	if st.Full() {
		g.full = insertIndex(g.full, idx)
	} else {
		g.notFull = insertIndex(g.notFull, idx)
	}
}

// Representative returns the identity members are tested against. Its Qty
// is always zero.
func (g Group) Representative() inventory.Stack { return g.rep }

// FullIndexes returns the member slots at their stack limit, ascending.
func (g Group) FullIndexes() []int { return append([]int(nil), g.full...) }

// NotFullIndexes returns the member slots with room left, ascending.
func (g Group) NotFullIndexes() []int { return append([]int(nil), g.notFull...) }

// Indexes returns every member slot, ascending.
func (g Group) Indexes() []int {
	out := make([]int, 0, len(g.full)+len(g.notFull))
	out = append(out, g.full...)
	out = append(out, g.notFull...)
	sort.Ints(out)
	return out
}

// Len returns the number of member slots.
func (g Group) Len() int { return len(g.full) + len(g.notFull) }

// IsEmpty reports whether the group has no member slots.
func (g Group) IsEmpty() bool { return g.Len() == 0 }

// TotalUnits sums the quantities of all member slots.
func (g Group) TotalUnits() int { return g.units }

// Contains reports whether slot idx is a member.
func (g Group) Contains(idx int) bool {
	_, ok := g.qty[idx]
	return ok
}

// resolvable reports whether the representative identifies an item.
func (g Group) resolvable() bool { return g.rep.Item != "" }

// DetermineGroups partitions the stackable slots of inv into groups, scanning
// left to right. Each slot joins the first group whose representative it can
// merge with, or starts a new one. Empty slots and items with a stack limit
// of 1 are ignored.
func DetermineGroups(inv *inventory.Inventory, merge MergeFunc) []Group {
	if inv == nil {
		return nil
	}
	var groups []Group
	for i := 0; i < inv.Len(); i++ {
		st, ok := inv.At(i)
		if !ok || !st.Stackable() {
			continue
		}
		placed := false
		for gi := range groups {
			if merge(groups[gi].rep, st) {
				groups[gi].add(i, st)
				placed = true
				break
			}
		}
		if !placed {
			g := newGroup(st)
			g.add(i, st)
			groups = append(groups, g)
		}
	}
	return groups
}

// collect builds the group of rep over inv. With a nil candidate list every
// slot is considered.
func collect(inv *inventory.Inventory, rep inventory.Stack, merge MergeFunc, candidates []int) Group {
	g := newGroup(rep)
	consider := func(i int) {
		st, ok := inv.At(i)
		if !ok || !st.Stackable() || !merge(rep, st) {
			return
		}
		g.add(i, st)
	}
	if candidates == nil {
		for i := 0; i < inv.Len(); i++ {
			consider(i)
		}
		return g
	}
	for _, i := range candidates {
		consider(i)
	}
	return g
}

func insertIndex(s []int, idx int) []int {
	pos := sort.SearchInts(s, idx)
	if pos < len(s) && s[pos] == idx {
		return s
	}
	s = append(s, 0)
	copy(s[pos+1:], s[pos:])
	s[pos] = idx
	return s
}

func removeIndex(s []int, idx int) []int {
	pos := sort.SearchInts(s, idx)
	if pos >= len(s) || s[pos] != idx {
		return s
	}
	return append(s[:pos], s[pos+1:]...)
}
