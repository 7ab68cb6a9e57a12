package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/stockpile/internal/quickstack"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

func TestRunContentionScenario(t *testing.T) {
	sc, err := Load("testdata/contention.yaml")
	require.NoError(t, err)
	assert.Equal(t, "scarce slot goes to the scarce group", sc.Name)

	out, err := sc.Run(nil, nil)
	require.NoError(t, err)

	res := out.Result
	assert.Equal(t, []int{0, 1, 4}, res.ChangedSourceIndexes())
	assert.Equal(t, 30, res.UnitsMoved())
	assert.Equal(t, []quickstack.Move{
		{SourceSlot: 1, ContainerID: "c1", TargetSlot: 2, Item: "stone", Qty: 5},
		{SourceSlot: 4, ContainerID: "c2", TargetSlot: 0, Item: "wood", Qty: 19, Merged: true},
		{SourceSlot: 4, ContainerID: "c2", TargetSlot: 1, Item: "wood", Qty: 1},
		{SourceSlot: 0, ContainerID: "c2", TargetSlot: 1, Item: "wood", Qty: 5, Merged: true},
	}, res.Moves())

	require.Len(t, out.Source.Slots, 1)
	assert.Equal(t, 2, out.Source.Slots[0].Index)
	assert.Equal(t, inventory.ItemID("sword"), out.Source.Slots[0].Item)

	require.Len(t, out.Containers, 4)
	byID := make(map[string]ContainerState)
	for _, c := range out.Containers {
		byID[c.ID] = c
	}
	assert.True(t, byID["c1"].Eligible)
	assert.False(t, byID["s1"].Eligible)
	assert.False(t, byID["bin"].Eligible)
	assert.Len(t, byID["s1"].Inventory.Slots, 1, "silo untouched")
	assert.Len(t, byID["bin"].Inventory.Slots, 1, "bin untouched")
	assert.Len(t, byID["c2"].Inventory.Slots, 2)
}

func TestParseValidation(t *testing.T) {
	_, err := Parse([]byte("name: empty\n"))
	assert.Error(t, err, "source size required")

	_, err = Parse([]byte("source: [unclosed"))
	assert.Error(t, err)
}

func TestBuildRejectsBadContainers(t *testing.T) {
	sc, err := Parse([]byte(`
source: {size: 2}
containers:
  - {id: a, size: 2}
  - {id: a, size: 2}
`))
	require.NoError(t, err)
	_, _, _, err = sc.Build()
	assert.ErrorContains(t, err, "duplicate")

	sc, err = Parse([]byte(`
source: {size: 2}
containers:
  - id: tight
    size: 3
    capacity: 1
    slots:
      - {index: 0, item: wood, qty: 1, stack_max: 10}
      - {index: 1, item: ore, qty: 1, stack_max: 10}
`))
	require.NoError(t, err)
	_, _, _, err = sc.Build()
	assert.ErrorContains(t, err, "capacity")

	sc, err = Parse([]byte(`
source:
  size: 1
  slots:
    - {index: 3, item: wood, qty: 1, stack_max: 10}
`))
	require.NoError(t, err)
	_, _, _, err = sc.Build()
	assert.ErrorIs(t, err, inventory.ErrSlotRange)
}

func TestRunWithoutCatalogUsesInlineLimits(t *testing.T) {
	sc, err := Parse([]byte(`
quick_stack:
  pick_lowest_first: true
source:
  size: 3
  slots:
    - {index: 0, item: wood, qty: 30, stack_max: 999}
    - {index: 2, item: wood, qty: 30, stack_max: 999}
containers:
  - id: c1
    size: 1
    slots:
      - {index: 0, item: wood, qty: 950, stack_max: 999}
`))
	require.NoError(t, err)

	out, err := sc.Run(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, out.Result.ChangedSourceIndexes())
	require.Len(t, out.Source.Slots, 1)
	assert.Equal(t, 2, out.Source.Slots[0].Index)
	assert.Equal(t, 11, out.Source.Slots[0].Qty)
}
