package terrain

import (
	"fmt"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// CheckInvariants verifies the structural invariants of the map and returns
// an InternalError describing the first violation found.
func (m *Map) CheckInvariants() error {
	if err := m.checkCells(); err != nil {
		return m.internal("check invariants", fmt.Errorf("%w: %w", ErrTopology, err))
	}
	if err := m.checkConnectors(); err != nil {
		return m.internal("check invariants", fmt.Errorf("%w: %w", ErrTopology, err))
	}
	if err := m.checkObstacles(); err != nil {
		return m.internal("check invariants", fmt.Errorf("%w: %w", ErrStackMismatch, err))
	}
	return nil
}

func (m *Map) checkCells() error {
	var err error
	m.grid.EachMiniTile(func(w geo.WalkPosition, mt *geo.MiniTile) {
		if err != nil {
			return
		}
		switch id := mt.AreaID(); {
		case mt.Walkable() && id == 0:
			err = fmt.Errorf("walkable minitile %v has no area", w)
		case !mt.Walkable() && id != 0:
			err = fmt.Errorf("unwalkable minitile %v belongs to area %d", w, id)
		case id != 0 && m.Area(id) == nil:
			err = fmt.Errorf("minitile %v belongs to dead area %d", w, id)
		}
	})
	if err != nil {
		return err
	}

	m.grid.EachTile(func(t geo.TilePosition, tile *geo.Tile) {
		if err != nil {
			return
		}
		stored := tile.AreaID()
		m.grid.SetAreaIDInTile(t)
		if tile.AreaID() != stored {
			err = fmt.Errorf("tile %v has area %d, its minitiles say %d", t, stored, tile.AreaID())
		}
	})
	return err
}

func (m *Map) checkConnectors() error {
	for _, c := range m.Connectors() {
		a, b := c.Areas()
		if a == b {
			return fmt.Errorf("connector %d joins area %d to itself", c.id, a)
		}
		for _, id := range []geo.AreaID{a, b} {
			area := m.Area(id)
			if area == nil {
				return fmt.Errorf("connector %d references dead area %d", c.id, id)
			}
			if !slices.Contains(area.connectors, c.id) {
				return fmt.Errorf("connector %d missing from area %d", c.id, id)
			}
		}
	}
	for _, area := range m.Areas() {
		for _, id := range area.connectors {
			c := m.Connector(id)
			if c == nil {
				return fmt.Errorf("area %d lists dead connector %d", area.id, id)
			}
			if a, b := c.Areas(); a != area.id && b != area.id {
				return fmt.Errorf("area %d lists connector %d of areas %d-%d", area.id, id, a, b)
			}
		}
	}
	return nil
}

func (m *Map) checkObstacles() error {
	for topLeft, stack := range m.stacks {
		head := m.obstacle(stack[0])
		if m.grid.Tile(topLeft).Obstacle() != head.id {
			return fmt.Errorf("tile %v is not occupied by its stack head %d", topLeft, head.handle)
		}
		for _, id := range stack {
			o := m.obstacle(id)
			if o.removed {
				return fmt.Errorf("removed obstacle %d still stacked at %v", o.handle, topLeft)
			}
			if o.kind != head.kind || o.topLeft != head.topLeft || o.size != head.size {
				return fmt.Errorf("obstacle %d does not match its stack head %d", o.handle, head.handle)
			}
		}
	}
	for _, o := range m.Obstacles() {
		if o.Blocking() && len(m.blockedAreas(o)) == 0 {
			return fmt.Errorf("blocking obstacle %d separates no area", o.handle)
		}
	}
	return nil
}
