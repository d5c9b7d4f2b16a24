package db

import (
	"time"

	"github.com/udisondev/geomap/internal/terrain"
)

// Analysis is the stored summary of one analysed map.
type Analysis struct {
	ID          int64
	Fingerprint string
	Name        string
	TileWidth   int
	TileHeight  int
	MaxAltitude int
	Lakes       int
	CreatedAt   time.Time

	Areas      []AreaRow
	Connectors []ConnectorRow
	Bases      []BaseRow
}

type AreaRow struct {
	AreaID          int
	TopX, TopY      int
	MiniTiles       int
	HighestAltitude int
	Group           int
	Minerals        int
	Geysers         int
}

type ConnectorRow struct {
	ConnectorID      int
	AreaA, AreaB     int
	CenterX, CenterY int
	Pseudo           bool
	Blocked          bool
}

type BaseRow struct {
	BaseID               int
	AreaID               int
	LocationX, LocationY int
	Minerals             int
	Geysers              int
	BlockingMinerals     int
	Starting             bool
}

// NewAnalysis captures the current state of m. Positions are stored in
// minitiles for areas and connectors and in tiles for bases.
func NewAnalysis(name, fingerprint string, m *terrain.Map) Analysis {
	size := m.Size()
	a := Analysis{
		Fingerprint: fingerprint,
		Name:        name,
		TileWidth:   size.X,
		TileHeight:  size.Y,
		MaxAltitude: int(m.MaxAltitude()),
		Lakes:       m.Lakes(),
	}
	for _, area := range m.Areas() {
		top := area.Top()
		a.Areas = append(a.Areas, AreaRow{
			AreaID:          int(area.ID()),
			TopX:            top.X,
			TopY:            top.Y,
			MiniTiles:       area.MiniTiles(),
			HighestAltitude: int(area.HighestAltitude()),
			Group:           area.Group(),
			Minerals:        len(area.Minerals()),
			Geysers:         len(area.Geysers()),
		})
	}
	for _, c := range m.Connectors() {
		x, y := c.Areas()
		center := c.Center()
		a.Connectors = append(a.Connectors, ConnectorRow{
			ConnectorID: int(c.ID()),
			AreaA:       int(x),
			AreaB:       int(y),
			CenterX:     center.X,
			CenterY:     center.Y,
			Pseudo:      c.Pseudo(),
			Blocked:     c.Blocked(),
		})
	}
	for _, b := range m.Bases() {
		loc := b.Location()
		a.Bases = append(a.Bases, BaseRow{
			BaseID:           b.ID(),
			AreaID:           int(b.Area()),
			LocationX:        loc.X,
			LocationY:        loc.Y,
			Minerals:         len(b.Minerals()),
			Geysers:          len(b.Geysers()),
			BlockingMinerals: len(b.BlockingMinerals()),
			Starting:         b.Starting(),
		})
	}
	return a
}
