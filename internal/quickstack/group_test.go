package quickstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

func stack(item string, qty, max int) inventory.Stack {
	return inventory.Stack{Item: inventory.ItemID(item), Qty: qty, StackMax: max}
}

func bag(t *testing.T, size int, slots map[int]inventory.Stack) *inventory.Inventory {
	t.Helper()
	inv := inventory.New("bag", "p1", size)
	for i, st := range slots {
		require.NoError(t, inv.Put(i, st))
	}
	return inv
}

func TestDetermineGroupsPartitions(t *testing.T) {
	inv := bag(t, 8, map[int]inventory.Stack{
		0: stack("wood", 10, 99),
		1: stack("sword", 1, 1),
		2: stack("stone", 99, 99),
		4: stack("wood", 99, 99),
		5: {Item: "wood", Quality: 2, Qty: 5, StackMax: 99},
		7: stack("stone", 3, 99),
	})

	groups := DetermineGroups(inv, inventory.SameKind)
	require.Len(t, groups, 3)

	wood := groups[0]
	assert.Equal(t, inventory.ItemID("wood"), wood.Representative().Item)
	assert.Equal(t, 0, wood.Representative().Qty)
	assert.Equal(t, []int{0, 4}, wood.Indexes())
	assert.Equal(t, []int{4}, wood.FullIndexes())
	assert.Equal(t, []int{0}, wood.NotFullIndexes())
	assert.Equal(t, 109, wood.TotalUnits())

	stone := groups[1]
	assert.Equal(t, []int{2, 7}, stone.Indexes())
	assert.Equal(t, 102, stone.TotalUnits())

	fine := groups[2]
	assert.Equal(t, 2, fine.Representative().Quality)
	assert.Equal(t, []int{5}, fine.Indexes())

	for _, g := range groups {
		assert.False(t, g.Contains(1), "non-stackable items are never grouped")
		assert.False(t, g.Contains(3), "empty slots are never grouped")
	}
}

func TestDetermineGroupsFirstMatchWins(t *testing.T) {
	// "any" merges with everything, so it absorbs later slots even though a
	// closer match exists.
	merge := func(a, b inventory.Stack) bool {
		return a.Item == b.Item || a.Item == "any" || b.Item == "any"
	}
	inv := bag(t, 3, map[int]inventory.Stack{
		0: stack("any", 1, 10),
		1: stack("ore", 1, 10),
		2: stack("ore", 1, 10),
	})
	groups := DetermineGroups(inv, merge)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1, 2}, groups[0].Indexes())
}

func TestGroupAddReclassifies(t *testing.T) {
	g := newGroup(stack("wood", 0, 10))
	g.add(3, stack("wood", 4, 10))
	assert.Equal(t, []int{3}, g.NotFullIndexes())
	assert.Equal(t, 4, g.TotalUnits())

	g.add(3, stack("wood", 10, 10))
	assert.Empty(t, g.NotFullIndexes())
	assert.Equal(t, []int{3}, g.FullIndexes())
	assert.Equal(t, 10, g.TotalUnits())
	assert.Equal(t, []int{3}, g.Indexes(), "indexes stay deduplicated")

	g.add(1, stack("wood", 2, 10))
	assert.Equal(t, []int{1, 3}, g.Indexes())
	assert.Equal(t, 2, g.Len())
}

func TestDetermineGroupsNilInventory(t *testing.T) {
	assert.Nil(t, DetermineGroups(nil, inventory.SameKind))
}

func TestGroupSnapshotsAreIndependent(t *testing.T) {
	inv := bag(t, 2, map[int]inventory.Stack{0: stack("wood", 1, 10)})
	g := DetermineGroups(inv, inventory.SameKind)[0]
	idx := g.NotFullIndexes()
	idx[0] = 99
	assert.Equal(t, []int{0}, g.NotFullIndexes())
}
