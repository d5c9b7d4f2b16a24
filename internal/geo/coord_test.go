package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionConversions(t *testing.T) {
	p := Pt(100, 70)
	assert.Equal(t, Wp(12, 8), p.Walk())
	assert.Equal(t, Tp(3, 2), p.Tile())
	assert.Equal(t, Tp(3, 2), p.Walk().Tile())

	assert.Equal(t, Pt(100, 68), Wp(12, 8).Center())
	assert.Equal(t, Pt(96, 64), Tp(3, 2).Pixel())
	assert.Equal(t, Pt(112, 80), Tp(3, 2).Center())
	assert.Equal(t, Wp(12, 8), Tp(3, 2).Walk())
}

func TestNegativePositionsFloor(t *testing.T) {
	assert.Equal(t, Wp(-1, -1), Pt(-3, -8).Walk())
	assert.Equal(t, Tp(-1, 0), Pt(-1, 0).Tile())
	assert.Equal(t, Tp(-1, -1), Wp(-4, -1).Tile())
}

func TestDistances(t *testing.T) {
	assert.Equal(t, 0.0, Dist(Pt(5, 5), Pt(5, 5)))
	assert.InDelta(t, 5.0, Dist(Pt(0, 0), Pt(3, 4)), 0.0001)
	assert.Equal(t, 14, RoundedDist(Pt(0, 0), Pt(10, 10)))
	assert.Equal(t, 4, QueenWiseDist(Tp(1, 1), Tp(5, 3)))
}

func TestDistToRectangle(t *testing.T) {
	tl := Tp(2, 2)
	size := Tp(2, 1) // pixels x 64..127, y 64..95

	tests := []struct {
		name string
		p    Position
		want int
	}{
		{"inside", Pt(70, 70), 0},
		{"north", Pt(70, 60), 4},
		{"south", Pt(70, 100), 5},
		{"west", Pt(60, 70), 4},
		{"east", Pt(130, 70), 3},
		{"north west", Pt(61, 60), 5},
		{"south east", Pt(130, 99), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistToRectangle(tt.p, tl, size))
		})
	}
}

func TestOuterBorder(t *testing.T) {
	border := OuterBorder(Tp(1, 1), Tp(1, 1))
	// 6x6 ring around a 4x4 block
	assert.Len(t, border, 20)
	assert.Contains(t, border, Wp(3, 3))
	assert.Contains(t, border, Wp(8, 8))
	assert.NotContains(t, border, Wp(4, 4))
}
