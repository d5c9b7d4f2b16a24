package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geomap/internal/geo"
)

func TestGetPathSameArea(t *testing.T) {
	m := newMap(t, tileInput(t, openField(8, 8)...))
	require.Len(t, m.Areas(), 1)

	tests := []struct {
		name string
		a, b geo.Position
	}{
		{"same point", geo.Pt(40, 40), geo.Pt(40, 40)},
		{"horizontal", geo.Pt(10, 100), geo.Pt(200, 100)},
		{"diagonal", geo.Pt(0, 0), geo.Pt(255, 255)},
		{"outside the map", geo.Pt(-50, 10), geo.Pt(100, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := m.GetPath(tt.a, tt.b)
			assert.Empty(t, p.Connectors)
			assert.Equal(t, geo.RoundedDist(tt.a, tt.b), p.Length)
			assert.False(t, p.Blocked)
		})
	}
}

func TestGetPathThroughRealConnector(t *testing.T) {
	m := newMap(t, tileInput(t, bigRooms...))

	require.Len(t, m.Areas(), 2)
	require.Len(t, m.Connectors(), 1)
	c := m.Connectors()[0]
	assert.False(t, c.Pseudo())
	assert.False(t, c.Blocked())
	allPairsDistinct(t, m)

	left, right := m.AreaAtTile(geo.Tp(2, 3)), m.AreaAtTile(geo.Tp(13, 3))
	require.NotEqual(t, left.ID(), right.ID())
	assert.True(t, m.Accessible(left.ID(), right.ID()))
	assert.Equal(t, []geo.AreaID{right.ID()}, left.AccessibleNeighbours())

	for _, id := range []geo.AreaID{left.ID(), right.ID()} {
		pos := c.PosIn(id)
		assert.Equal(t, id, m.MiniTile(pos).AreaID())
		assert.False(t, m.MiniTile(pos).Blocked())
	}
	ends := c.Geometry()
	require.NotEmpty(t, ends)
	assert.Contains(t, ends, c.Center())

	a, b := geo.Tp(2, 3).Center(), geo.Tp(13, 3).Center()
	p := m.GetPath(a, b)
	assert.Equal(t, []ConnectorID{c.ID()}, p.Connectors)
	assert.False(t, p.Blocked)
	assert.GreaterOrEqual(t, p.Length, geo.RoundedDist(a, b)-3)
	assert.Equal(t, p, m.GetPathWithOptions(a, b, PathOptions{AvoidBlocked: true}))

	back := m.GetPath(b, a)
	assert.Equal(t, p.Connectors, back.Connectors)
}

func TestGetPathAcrossThreeRooms(t *testing.T) {
	m := newMap(t, tileInput(t,
		".......##.......##.......",
		".......##.......##.......",
		".......##.......##.......",
		".........................",
		".......##.......##.......",
		".......##.......##.......",
		".......##.......##.......",
	))

	require.Len(t, m.Areas(), 3)
	require.Len(t, m.Connectors(), 2)
	allPairsDistinct(t, m)

	left := m.AreaAtTile(geo.Tp(2, 1))
	middle := m.AreaAtTile(geo.Tp(12, 1))
	right := m.AreaAtTile(geo.Tp(22, 1))

	a, b := geo.Tp(2, 1).Center(), geo.Tp(22, 5).Center()
	p := m.GetPath(a, b)
	require.Len(t, p.Connectors, 2)

	first, second := m.Connector(p.Connectors[0]), m.Connector(p.Connectors[1])
	x, y := first.Areas()
	assert.ElementsMatch(t, []geo.AreaID{left.ID(), middle.ID()}, []geo.AreaID{x, y})
	x, y = second.Areas()
	assert.ElementsMatch(t, []geo.AreaID{middle.ID(), right.ID()}, []geo.AreaID{x, y})

	// The middle leg walks between the two connectors inside the middle room.
	legs := geo.RoundedDist(a, first.PosIn(left.ID()).Center()) +
		geo.RoundedDist(second.PosIn(right.ID()).Center(), b)
	assert.Greater(t, p.Length, legs)
	assert.Equal(t, p, m.GetPath(a, b), "memoized path must be stable")
}

func TestNearestArea(t *testing.T) {
	m := newMap(t, tileInput(t,
		"....####",
		"....####",
		"....####",
		"....####",
	))

	inside, err := m.NearestArea(geo.Wp(3, 3))
	require.NoError(t, err)
	require.NotNil(t, inside)

	wall, err := m.NearestArea(geo.Wp(30, 8))
	require.NoError(t, err)
	assert.Equal(t, inside.ID(), wall.ID())

	outside, err := m.NearestAreaTile(geo.Tp(40, -3))
	require.NoError(t, err)
	assert.Equal(t, inside.ID(), outside.ID())

	assert.Nil(t, m.AreaAt(geo.Wp(30, 8)))
	assert.Nil(t, m.AreaAt(geo.Wp(-1, 0)))
	assert.Nil(t, m.AreaAtTile(geo.Tp(7, 0)))
}

func TestNearestAreaWithoutAreas(t *testing.T) {
	m := newMap(t, tileInput(t, "####", "####"))

	a, err := m.NearestArea(geo.Wp(1, 1))
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, -1, m.GetPath(geo.Pt(1, 1), geo.Pt(40, 40)).Length)
}

func TestGetPathPicksConnectorNearEndPoints(t *testing.T) {
	rows := make([]string, 16)
	for y := range rows {
		rows[y] = "..........####.........."
	}
	rows[1] = "........................"
	rows[14] = "........................"
	m := newMap(t, tileInput(t, rows...))

	require.Len(t, m.Areas(), 2)
	require.Len(t, m.Connectors(), 2)
	var top, bottom *Connector
	for _, c := range m.Connectors() {
		if c.Center().Y < 32 {
			top = c
		} else {
			bottom = c
		}
	}
	require.NotNil(t, top)
	require.NotNil(t, bottom)

	tests := []struct {
		name string
		row  int
		want *Connector
	}{
		{"top corridor", 1, top},
		{"bottom corridor", 14, bottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := geo.Tp(8, tt.row).Center(), geo.Tp(15, tt.row).Center()
			p := m.GetPath(a, b)
			assert.Equal(t, []ConnectorID{tt.want.ID()}, p.Connectors)
			assert.GreaterOrEqual(t, p.Length, geo.RoundedDist(a, b)-3)
			assert.Less(t, p.Length, 2*geo.RoundedDist(a, b))

			// Reversed end points take the same corridor.
			back := m.GetPath(b, a)
			assert.Equal(t, p.Connectors, back.Connectors)
			assert.Equal(t, p.Length, back.Length)
		})
	}
}
