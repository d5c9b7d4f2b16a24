package geo

// Altitude is the distance in pixels from a minitile to the nearest
// unwalkable minitile, capped by the grid's max altitude.
type Altitude int32

// AreaID identifies a region. Zero means no region (unwalkable or water).
type AreaID int32

// ObstacleID identifies an obstacle in the engine's obstacle table. Zero means none.
type ObstacleID int32

// WaterKind classifies unwalkable minitiles.
type WaterKind uint8

const (
	NoWater WaterKind = iota
	Sea               // connected to the grid edge
	Lake              // enclosed by walkable terrain
)

// MiniTile is a fine cell: 8x8 pixels.
type MiniTile struct {
	altitude Altitude
	areaID   AreaID
	walkable bool
	water    WaterKind
	blocked  bool
}

// Walkable reports whether ground units can stand on the minitile.
func (m *MiniTile) Walkable() bool { return m.walkable }

// Altitude returns the distance field value. Zero for unwalkable minitiles.
func (m *MiniTile) Altitude() Altitude { return m.altitude }

// AreaID returns the owning region, or 0.
func (m *MiniTile) AreaID() AreaID { return m.areaID }

// Water returns the sea/lake classification of an unwalkable minitile.
func (m *MiniTile) Water() WaterKind { return m.water }

func (m *MiniTile) Sea() bool  { return m.water == Sea }
func (m *MiniTile) Lake() bool { return m.water == Lake }

// Blocked reports whether the minitile lies under a blocking obstacle.
func (m *MiniTile) Blocked() bool { return m.blocked }

func (m *MiniTile) SetAreaID(id AreaID)       { m.areaID = id }
func (m *MiniTile) SetAltitude(a Altitude)    { m.altitude = a }
func (m *MiniTile) SetBlocked(blocked bool)   { m.blocked = blocked }
func (m *MiniTile) setWater(kind WaterKind)   { m.water = kind }
func (m *MiniTile) setWalkable(walkable bool) { m.walkable = walkable }

// Tile is a coarse cell: 4x4 minitiles, 32x32 pixels.
type Tile struct {
	areaID       AreaID
	minAltitude  Altitude
	buildable    bool
	groundHeight int
	obstacle     ObstacleID
}

// AreaID returns the region owning the majority of the tile's walkable
// minitiles, or 0 when none is walkable.
func (t *Tile) AreaID() AreaID { return t.areaID }

// MinAltitude returns the lowest altitude among the tile's minitiles.
func (t *Tile) MinAltitude() Altitude { return t.minAltitude }

func (t *Tile) Buildable() bool   { return t.buildable }
func (t *Tile) GroundHeight() int { return t.groundHeight }

// Obstacle returns the head of the obstacle stack occupying the tile, or 0.
func (t *Tile) Obstacle() ObstacleID { return t.obstacle }

func (t *Tile) SetObstacle(id ObstacleID) { t.obstacle = id }
