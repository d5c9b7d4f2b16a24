package geo

// DecideSeasOrLakes classifies every unwalkable minitile: a 4-connected water
// body touching the grid edge is sea, anything enclosed is a lake.
// It returns the number of lakes found.
func (g *Grid) DecideSeasOrLakes() int {
	w, h := g.walkSize.X, g.walkSize.Y
	lakes := 0

	var body []int
	for i := range g.miniTiles {
		if g.miniTiles[i].walkable || g.miniTiles[i].water != NoWater {
			continue
		}

		body = body[:0]
		body = append(body, i)
		g.miniTiles[i].water = Sea // provisional, marks the cell as seen
		touchesEdge := false
		for k := 0; k < len(body); k++ {
			x, y := body[k]%w, body[k]/w
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				touchesEdge = true
			}
			for _, d := range dir4 {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				next := &g.miniTiles[ni]
				if next.walkable || next.water != NoWater {
					continue
				}
				next.water = Sea
				body = append(body, ni)
			}
		}

		if !touchesEdge {
			lakes++
			for _, k := range body {
				g.miniTiles[k].setWater(Lake)
			}
		}
	}
	return lakes
}

// SeaSide reports whether w is sea next to some non-sea minitile.
func (g *Grid) SeaSide(w WalkPosition) bool {
	if !g.MiniTile(w).Sea() {
		return false
	}
	for _, d := range dir4 {
		next := w.Add(d[0], d[1])
		if g.ValidWalk(next) && !g.MiniTile(next).Sea() {
			return true
		}
	}
	return false
}

// AdjoinsLakeOrObstacle reports whether one of the 8 neighbours of w is a
// lake or lies on a tile occupied by an obstacle.
func (g *Grid) AdjoinsLakeOrObstacle(w WalkPosition) bool {
	for _, d := range dir8 {
		next := w.Add(d[0], d[1])
		if !g.ValidWalk(next) {
			continue
		}
		if g.MiniTile(next).Lake() || g.Tile(next.Tile()).Obstacle() != 0 {
			return true
		}
	}
	return false
}
