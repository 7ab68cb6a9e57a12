package quickstack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/stockpile/pkg/inventory"
)

func chest(t *testing.T, id string, size int, contents ...inventory.Stack) *inventory.Container {
	t.Helper()
	c := inventory.NewContainer(id, inventory.KindChest, size)
	for _, st := range contents {
		_, err := c.Inventory.Add(st)
		require.NoError(t, err)
	}
	return c
}

func TestScan(t *testing.T) {
	c := chest(t, "c1", 4, stack("wood", 99, 99), stack("stone", 5, 99), stack("wood", 3, 99))

	m, ok := Scan(c, stack("wood", 0, 99), inventory.SameKind)
	require.True(t, ok)
	assert.Equal(t, []int{0}, m.Group.FullIndexes())
	assert.Equal(t, []int{2}, m.Group.NotFullIndexes())
	assert.Equal(t, 102, m.Group.TotalUnits())
	assert.False(t, m.IsFull())

	m, ok = Scan(c, stack("clay", 0, 99), inventory.SameKind)
	require.True(t, ok)
	assert.True(t, m.Group.IsEmpty())

	c.Accept = inventory.AcceptItems("stone")
	_, ok = Scan(c, stack("wood", 0, 99), inventory.SameKind)
	assert.False(t, ok, "refused items produce no match")
}

func TestContainerMatchIsFull(t *testing.T) {
	c := chest(t, "c1", 2, stack("wood", 99, 99), stack("wood", 99, 99))
	m, _ := Scan(c, stack("wood", 0, 99), inventory.SameKind)
	assert.True(t, m.IsFull())

	c = chest(t, "c2", 2, stack("wood", 99, 99), stack("stone", 1, 99))
	m, _ = Scan(c, stack("wood", 0, 99), inventory.SameKind)
	assert.True(t, m.IsFull(), "no room in the wood stack and no free slot")

	c = chest(t, "c3", 3, stack("wood", 99, 99))
	c.Capacity = 1
	m, _ = Scan(c, stack("wood", 0, 99), inventory.SameKind)
	assert.True(t, m.IsFull(), "capacity bounds stacks below the slot count")
}

func TestMapNeverSeedsEmptyContainers(t *testing.T) {
	src := bag(t, 4, map[int]inventory.Stack{0: stack("wood", 5, 99), 1: stack("stone", 5, 99)})
	empty := chest(t, "empty", 8)
	woody := chest(t, "woody", 8, stack("wood", 1, 99))

	out := Map(DetermineGroups(src, inventory.SameKind), []*inventory.Container{empty, woody}, DefaultConfig(), inventory.SameKind)
	require.Len(t, out, 2)

	assert.Equal(t, inventory.ItemID("wood"), out[0].Group.Representative().Item)
	require.Len(t, out[0].Destinations, 1)
	assert.Equal(t, "woody", out[0].Destinations[0].Container.ID)

	assert.Equal(t, inventory.ItemID("stone"), out[1].Group.Representative().Item)
	assert.Empty(t, out[1].Destinations)
}

func TestMapSkipsIneligibleAndFull(t *testing.T) {
	src := bag(t, 2, map[int]inventory.Stack{0: stack("wood", 5, 99)})
	bin := inventory.NewContainer("bin", inventory.KindShippingBin, 4)
	_, _ = bin.Inventory.Add(stack("wood", 1, 99))
	full := chest(t, "full", 1, stack("wood", 99, 99))
	silo := inventory.NewContainer("silo", inventory.KindSilo, 4)
	_, _ = silo.Inventory.Add(stack("wood", 1, 99))

	cfg := DefaultConfig()
	cfg.ConsiderSilos = false

	out := Map(DetermineGroups(src, inventory.SameKind), []*inventory.Container{bin, full, silo}, cfg, inventory.SameKind)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Destinations)
}

func TestMapSkipsUnresolvableGroups(t *testing.T) {
	c := chest(t, "c", 2, stack("wood", 1, 99))
	anonymous := newGroup(inventory.Stack{StackMax: 99})
	anonymous.add(0, inventory.Stack{Qty: 1, StackMax: 99})
	groups := []Group{{}, anonymous}
	assert.Empty(t, Map(groups, []*inventory.Container{c}, DefaultConfig(), inventory.SameKind))
}
