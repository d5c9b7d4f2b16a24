// Package snapshot reads terrain observations stored as YAML files.
//
// A snapshot either lists coarse tile rows, where '.' is open buildable
// ground, ',' is walkable but not buildable and '#' is unwalkable, or fine
// walkability rows ('.' walkable, '#' not) together with coarse buildability
// rows ('b' buildable). Heights are optional coarse rows of digits.
package snapshot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/geomap/internal/geo"
	"github.com/udisondev/geomap/internal/terrain"
)

// ErrMalformed is returned for snapshots that cannot describe a map.
var ErrMalformed = errors.New("malformed snapshot")

// Snapshot is the YAML form of a terrain observation.
type Snapshot struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`  // tiles
	Height int    `yaml:"height"` // tiles

	Tiles   []string `yaml:"tiles,omitempty"`
	Walk    []string `yaml:"walk,omitempty"`
	Build   []string `yaml:"build,omitempty"`
	Heights []string `yaml:"heights,omitempty"`

	Obstacles         []Obstacle `yaml:"obstacles,omitempty"`
	StartingLocations [][2]int   `yaml:"starting_locations,omitempty"`
}

// Obstacle is one neutral unit of the snapshot.
type Obstacle struct {
	Handle  uint64 `yaml:"handle"`
	Kind    string `yaml:"kind"`
	TopLeft [2]int `yaml:"top_left"`
	Size    [2]int `yaml:"size"`
	Amount  int    `yaml:"amount,omitempty"`
}

// Load reads and parses a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a snapshot from YAML.
func Parse(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &s, nil
}

// Marshal encodes the snapshot as YAML.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot %q: %w", s.Name, err)
	}
	return data, nil
}

// Input converts the snapshot into the raw observation terrain.New expects.
func (s *Snapshot) Input() (terrain.Input, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return terrain.Input{}, fmt.Errorf("%w: size %dx%d", ErrMalformed, s.Width, s.Height)
	}
	in := terrain.Input{
		TileWidth:  s.Width,
		TileHeight: s.Height,
		Buildable:  make([]bool, s.Width*s.Height),
	}

	var err error
	switch {
	case len(s.Tiles) > 0 && len(s.Walk) > 0:
		return in, fmt.Errorf("%w: both tiles and walk rows given", ErrMalformed)
	case len(s.Tiles) > 0:
		err = s.decodeTiles(&in)
	default:
		err = s.decodeWalk(&in)
	}
	if err != nil {
		return in, err
	}

	if len(s.Heights) > 0 {
		in.Heights = make([]int, s.Width*s.Height)
		if err := eachCell(s.Heights, s.Width, s.Height, "heights", func(i int, ch rune) error {
			if ch < '0' || ch > '9' {
				return fmt.Errorf("height %q is not a digit", ch)
			}
			in.Heights[i] = int(ch - '0')
			return nil
		}); err != nil {
			return in, err
		}
	}

	for _, o := range s.Obstacles {
		kind, err := terrain.ParseKind(o.Kind)
		if err != nil {
			return in, fmt.Errorf("%w: obstacle %d: %w", ErrMalformed, o.Handle, err)
		}
		in.Obstacles = append(in.Obstacles, terrain.ObstacleInput{
			Handle:  o.Handle,
			Kind:    kind,
			TopLeft: geo.Tp(o.TopLeft[0], o.TopLeft[1]),
			Size:    geo.Tp(o.Size[0], o.Size[1]),
			Amount:  o.Amount,
		})
	}
	for _, p := range s.StartingLocations {
		in.StartingLocations = append(in.StartingLocations, geo.Tp(p[0], p[1]))
	}
	return in, nil
}

func (s *Snapshot) decodeTiles(in *terrain.Input) error {
	in.Walkable = make([]bool, s.Width*s.Height*geo.MiniTilesPerTile*geo.MiniTilesPerTile)
	walkW := s.Width * geo.MiniTilesPerTile
	return eachCell(s.Tiles, s.Width, s.Height, "tiles", func(i int, ch rune) error {
		var walkable bool
		switch ch {
		case '.':
			walkable, in.Buildable[i] = true, true
		case ',':
			walkable = true
		case '#':
		default:
			return fmt.Errorf("unknown tile %q", ch)
		}
		tx, ty := i%s.Width, i/s.Width
		for dy := range geo.MiniTilesPerTile {
			row := (ty*geo.MiniTilesPerTile + dy) * walkW
			for dx := range geo.MiniTilesPerTile {
				in.Walkable[row+tx*geo.MiniTilesPerTile+dx] = walkable
			}
		}
		return nil
	})
}

func (s *Snapshot) decodeWalk(in *terrain.Input) error {
	w, h := s.Width*geo.MiniTilesPerTile, s.Height*geo.MiniTilesPerTile
	in.Walkable = make([]bool, w*h)
	if err := eachCell(s.Walk, w, h, "walk", func(i int, ch rune) error {
		switch ch {
		case '.':
			in.Walkable[i] = true
		case '#':
		default:
			return fmt.Errorf("unknown minitile %q", ch)
		}
		return nil
	}); err != nil {
		return err
	}
	if len(s.Build) == 0 {
		return nil
	}
	return eachCell(s.Build, s.Width, s.Height, "build", func(i int, ch rune) error {
		in.Buildable[i] = ch == 'b'
		return nil
	})
}

func eachCell(rows []string, w, h int, layer string, fn func(i int, ch rune) error) error {
	if len(rows) != h {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrMalformed, layer, len(rows), h)
	}
	for y, row := range rows {
		if len(row) != w {
			return fmt.Errorf("%w: %s row %d has %d cells, want %d", ErrMalformed, layer, y, len(row), w)
		}
		for x, ch := range row {
			if err := fn(y*w+x, ch); err != nil {
				return fmt.Errorf("%w: %s (%d,%d): %w", ErrMalformed, layer, x, y, err)
			}
		}
	}
	return nil
}
