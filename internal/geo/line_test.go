package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineHorizontal(t *testing.T) {
	points := Line(Wp(0, 0), Wp(5, 0))

	assert.Equal(t, 6, len(points), "should visit 6 points (0..5)")
	assert.Equal(t, 0, points[0].X)
	assert.Equal(t, 5, points[5].X)
	for _, p := range points {
		assert.Equal(t, 0, p.Y)
	}
}

func TestLineVertical(t *testing.T) {
	points := Line(Wp(0, 0), Wp(0, 3))

	assert.Equal(t, 4, len(points))
	assert.Equal(t, 0, points[0].Y)
	assert.Equal(t, 3, points[3].Y)
}

func TestLineDiagonalReversed(t *testing.T) {
	points := Line(Wp(4, 4), Wp(0, 0))

	assert.Equal(t, []WalkPosition{Wp(4, 4), Wp(3, 3), Wp(2, 2), Wp(1, 1), Wp(0, 0)}, points)
}

func TestLineSinglePoint(t *testing.T) {
	assert.Equal(t, []WalkPosition{Wp(2, 7)}, Line(Wp(2, 7), Wp(2, 7)))
}

func TestLineIsConnected(t *testing.T) {
	points := Line(Wp(1, 2), Wp(11, 6))
	assert.Equal(t, Wp(1, 2), points[0])
	assert.Equal(t, Wp(11, 6), points[len(points)-1])
	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, abs(points[i].X-points[i-1].X), 1)
		assert.LessOrEqual(t, abs(points[i].Y-points[i-1].Y), 1)
	}
}
