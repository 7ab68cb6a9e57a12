package world

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/stockpile/pkg/hex"
	"github.com/gravitas-games/stockpile/pkg/inventory"
)

func at(id string, q, r int, opts ...inventory.ContainerOption) *inventory.Container {
	opts = append(opts, inventory.WithPosition(hex.Axial{Q: q, R: r}))
	return inventory.NewContainer(id, inventory.KindChest, 4, opts...)
}

func ids(cs []*inventory.Container) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}

func TestPlaceAndRemove(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Place(at("a", 0, 0)))
	assert.ErrorIs(t, w.Place(at("a", 1, 0)), ErrDuplicateID)
	assert.ErrorIs(t, w.Place(at("b", 0, 0)), ErrTileOccupied)
	assert.Error(t, w.Place(nil))
	assert.Equal(t, 1, w.Len())

	c, err := w.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, "a", c.ID)
	_, ok := w.Get("a")
	assert.False(t, ok)

	_, err = w.Remove("a")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, w.Place(at("b", 0, 0)), "tile freed on removal")
}

func TestContainersNearOrdering(t *testing.T) {
	w := New(nil)
	require.NoError(t, w.Place(at("far", 3, 0)))
	require.NoError(t, w.Place(at("z-near", 1, 0)))
	require.NoError(t, w.Place(at("a-near", 0, -1)))
	require.NoError(t, w.Place(at("here", 0, 0)))
	require.NoError(t, w.Place(at("mid", -1, -1)))

	assert.Equal(t, []string{"here", "a-near", "z-near", "mid"}, ids(w.ContainersNear(hex.Axial{}, 2)))
	assert.Equal(t, []string{"here"}, ids(w.ContainersNear(hex.Axial{}, 0)))
	assert.Empty(t, w.ContainersNear(hex.Axial{}, -1))
}

func TestContainersNearLargeRadiusMatchesDiskWalk(t *testing.T) {
	w := New(nil)
	for i := 0; i < 40; i++ {
		require.NoError(t, w.Place(at(fmt.Sprintf("c%02d", i), i%7-3, i/7-3)))
	}
	center := hex.Axial{Q: 1, R: -1}
	// radius 2 covers 19 tiles and walks the disk; radius 6 scans the map.
	small := w.ContainersNear(center, 2)
	large := w.ContainersNear(center, 6)
	for _, c := range small {
		assert.LessOrEqual(t, hex.DistanceAxial(center, c.Position), 2)
	}
	assert.Equal(t, ids(small), ids(large[:len(small)]))
	for _, c := range large {
		assert.LessOrEqual(t, hex.DistanceAxial(center, c.Position), 6)
	}
}

func TestAccessible(t *testing.T) {
	shared := at("shared", 0, 0)
	mine := at("mine", 1, 0, inventory.WithOwner("p1"))
	theirs := at("theirs", 2, 0, inventory.WithOwner("p2"))

	got := Accessible([]*inventory.Container{shared, mine, theirs}, "p1")
	assert.Equal(t, []string{"shared", "mine"}, ids(got))
}
