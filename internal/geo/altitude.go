package geo

import (
	"github.com/zyedidia/generic/heap"
)

type frontierCell struct {
	idx  int
	dist int
}

// ComputeAltitude fills the altitude of every walkable minitile with its
// chamfer distance, in pixels, to the nearest unwalkable minitile or to the
// outside of the grid, capped at maxAltitude. Unwalkable minitiles get 0.
// Tile summaries are refreshed.
func (g *Grid) ComputeAltitude(maxAltitude Altitude) {
	if maxAltitude <= 0 {
		maxAltitude = DefaultMaxAltitude
	}
	w, h := g.walkSize.X, g.walkSize.Y
	dist := make([]int, len(g.miniTiles))
	frontier := heap.New[frontierCell](func(a, b frontierCell) bool { return a.dist < b.dist })

	const unset = -1
	for i := range g.miniTiles {
		if g.miniTiles[i].walkable {
			dist[i] = unset
			continue
		}
		dist[i] = 0
		frontier.Push(frontierCell{idx: i})
	}

	// The grid is surrounded by virtual water: border minitiles are one step away.
	for y := range h {
		for x := range w {
			if x != 0 && y != 0 && x != w-1 && y != h-1 {
				continue
			}
			if i := y*w + x; g.miniTiles[i].walkable {
				frontier.Push(frontierCell{idx: i, dist: OrthogonalStep})
			}
		}
	}

	limit := int(maxAltitude)
	for frontier.Size() > 0 {
		cur, _ := frontier.Pop()
		if g.miniTiles[cur.idx].walkable {
			// Pops come in increasing distance: the first one settles the cell.
			if dist[cur.idx] != unset {
				continue
			}
			dist[cur.idx] = cur.dist
		}
		if cur.dist >= limit {
			continue
		}

		cx, cy := cur.idx%w, cur.idx/w
		for _, d := range dir8 {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if !g.miniTiles[ni].walkable {
				continue
			}
			step := OrthogonalStep
			if d[0] != 0 && d[1] != 0 {
				step = DiagonalStep
			}
			if dist[ni] != unset {
				continue
			}
			frontier.Push(frontierCell{idx: ni, dist: cur.dist + step})
		}
	}

	g.maxAltitude = 0
	for i := range g.miniTiles {
		m := &g.miniTiles[i]
		if !m.walkable {
			m.altitude = 0
			continue
		}
		a := Altitude(limit)
		if dist[i] != unset && dist[i] < limit {
			a = Altitude(dist[i])
		}
		m.altitude = a
		if a > g.maxAltitude {
			g.maxAltitude = a
		}
	}

	g.EachTile(func(t TilePosition, _ *Tile) { g.SetAltitudeInTile(t) })
}
