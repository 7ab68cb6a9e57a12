package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceAxial(t *testing.T) {
	origin := Axial{}
	assert.Equal(t, 0, DistanceAxial(origin, origin))
	for _, d := range Directions {
		assert.Equal(t, 1, DistanceAxial(origin, d))
	}
	assert.Equal(t, 3, DistanceAxial(Axial{Q: -1, R: -1}, Axial{Q: 2, R: -1}))
	assert.Equal(t, 4, DistanceAxial(Axial{Q: 2, R: 2}, Axial{Q: 0, R: 0}))
}

func TestDiskSizeAndBounds(t *testing.T) {
	c := Axial{Q: 3, R: -2}
	for r := 0; r <= 4; r++ {
		cells := Disk(c, r)
		assert.Len(t, cells, 1+3*r*(r+1))
		for _, cell := range cells {
			assert.LessOrEqual(t, DistanceAxial(c, cell), r)
		}
	}
	assert.Empty(t, Disk(c, -1))
}

func TestRingDistance(t *testing.T) {
	c := Axial{}
	assert.Equal(t, []Axial{c}, Ring(c, 0))
	ring := Ring(c, 2)
	assert.Len(t, ring, 12)
	for _, cell := range ring {
		assert.Equal(t, 2, DistanceAxial(c, cell))
	}
}
