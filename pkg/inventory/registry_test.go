package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNumericIDs(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterDetails(ItemDetails{ID: "a"}))
	require.NoError(t, reg.RegisterDetails(ItemDetails{ID: "b", NumericID: 10}))
	require.NoError(t, reg.RegisterDetails(ItemDetails{ID: "c"}))

	id, ok := reg.GetRegistryID("c")
	require.True(t, ok)
	assert.Equal(t, RegistryID(11), id)

	d, ok := reg.LookupByRegistryID(10)
	require.True(t, ok)
	assert.Equal(t, ItemID("b"), d.ID)

	assert.Error(t, reg.RegisterDetails(ItemDetails{ID: "d", NumericID: 10}), "collision")
	assert.Error(t, reg.RegisterDetails(ItemDetails{ID: "b", NumericID: 12}), "renumbering")
	assert.Error(t, reg.RegisterDetails(ItemDetails{}))
	assert.Error(t, reg.RegisterDetails(ItemDetails{ID: "e", MaxStack: -1}))

	exported := reg.Export()
	require.Len(t, exported, 3)
	assert.Equal(t, ItemID("a"), exported[0].ID)
	assert.Equal(t, ItemID("c"), exported[2].ID)
}

func TestRegistryStackLimits(t *testing.T) {
	reg := NewRegistry(
		ItemDetails{ID: "wood", MaxStack: 999},
		ItemDetails{ID: "sword"},
	)
	limit, ok := reg.StackMaxFor("wood")
	require.True(t, ok)
	assert.Equal(t, 999, limit)

	_, ok = reg.StackMaxFor("sword")
	assert.False(t, ok)

	assert.Equal(t, 999, reg.Normalize(Stack{Item: "wood", Qty: 1}).StackMax)
	assert.Equal(t, 1, reg.Normalize(Stack{Item: "sword", Qty: 1}).StackMax)
	assert.Equal(t, 5, reg.Normalize(Stack{Item: "wood", Qty: 1, StackMax: 5}).StackMax, "explicit limit wins")
}

func TestRegistryCanMerge(t *testing.T) {
	reg := NewRegistry(ItemDetails{ID: "wood", MaxStack: 999})
	assert.True(t, reg.CanMerge(Stack{Item: "wood"}, Stack{Item: "wood"}))
	assert.False(t, reg.CanMerge(Stack{Item: "wood", Quality: 1}, Stack{Item: "wood"}))
	assert.False(t, reg.CanMerge(Stack{Item: "ghost"}, Stack{Item: "ghost"}), "uncatalogued items never merge")
}

func TestSampleBaseIsConsistent(t *testing.T) {
	reg := SampleCatalog()
	for _, c := range SampleBase(reg) {
		require.NoError(t, c.Validate())
	}
	inv := SampleLoadout("p1-bag", "p1", reg)
	assert.Equal(t, 6, inv.Occupied())
	assert.Equal(t, 106, inv.TotalQty("energy-cell"))
}
