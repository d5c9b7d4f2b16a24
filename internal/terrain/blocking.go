package terrain

import (
	"log/slog"

	"github.com/zyedidia/generic/mapset"

	"github.com/udisondev/geomap/internal/geo"
)

// processBlockingObstacles finds the stacks whose footprint separates
// otherwise connected terrain. Their walkable minitiles are flagged blocked
// so region growth treats them as walls.
func (m *Map) processBlockingObstacles() {
	var candidates []*Obstacle
	for _, kind := range []Kind{StaticStructure, Mineral} {
		for _, o := range m.obstaclesOf(kind) {
			if m.stacks[o.topLeft][0] == o.id {
				candidates = append(candidates, o)
			}
		}
	}

	for _, o := range candidates {
		limit := m.opts.BlockingFloodMineral
		if o.kind == StaticStructure {
			limit = m.opts.BlockingFloodStatic
		}

		var trueDoors []geo.WalkPosition
		for _, door := range m.findDoors(o) {
			if m.floodReaches(door, limit) {
				trueDoors = append(trueDoors, door)
			}
		}
		if len(trueDoors) < 2 {
			continue
		}

		for _, id := range m.stacks[o.topLeft] {
			m.obstacle(id).blockedAt = trueDoors
		}
		o.eachMiniTile(func(w geo.WalkPosition) {
			if mt := m.grid.MiniTile(w); mt.Walkable() {
				mt.SetBlocked(true)
			}
		})
		slog.Debug("blocking obstacle", "kind", o.kind, "handle", o.handle, "top_left", o.topLeft, "doors", len(trueDoors))
	}
}

// findDoors groups the free walkable cells around the footprint. Groups grow
// only through cells hugging a lake or an obstacle, so two sides of the
// footprint joined by open ground stay separate doors.
func (m *Map) findDoors(o *Obstacle) []geo.WalkPosition {
	free := func(w geo.WalkPosition) bool {
		return m.grid.ValidWalk(w) && m.grid.MiniTile(w).Walkable() && m.grid.Tile(w.Tile()).Obstacle() == 0
	}

	border := mapset.New[geo.WalkPosition]()
	var order []geo.WalkPosition
	for _, w := range geo.OuterBorder(o.topLeft, o.size) {
		if free(w) {
			border.Put(w)
			order = append(order, w)
		}
	}

	var doors []geo.WalkPosition
	for _, door := range order {
		if !border.Has(door) {
			continue
		}
		border.Remove(door)
		doors = append(doors, door)

		geo.Flood(m.grid.ValidWalk, door, func(w geo.WalkPosition) bool {
			if !free(w) || !m.grid.AdjoinsLakeOrObstacle(w) {
				return false
			}
			border.Remove(w)
			return true
		}, geo.Connect4)
	}
	return doors
}

// floodReaches reports whether a 4-connected flood of free walkable cells
// from door visits at least limit cells.
func (m *Map) floodReaches(door geo.WalkPosition, limit int) bool {
	visited := 1
	_, err := m.grid.SearchWalk(door,
		func(geo.WalkPosition, *geo.MiniTile) bool { return visited >= limit },
		func(w geo.WalkPosition, mt *geo.MiniTile) bool {
			if !mt.Walkable() || m.grid.Tile(w.Tile()).Obstacle() != 0 {
				return false
			}
			visited++
			return true
		},
		geo.Connect4)
	return err == nil || visited >= limit
}
