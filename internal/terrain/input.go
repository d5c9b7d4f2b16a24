package terrain

import (
	"fmt"
	"strings"

	"github.com/udisondev/geomap/internal/geo"
)

// Kind discriminates obstacles.
type Kind uint8

const (
	Mineral Kind = iota + 1
	Geyser
	StaticStructure
)

func (k Kind) String() string {
	switch k {
	case Mineral:
		return "mineral"
	case Geyser:
		return "geyser"
	case StaticStructure:
		return "static"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsResource reports whether the kind can be assigned to a base.
func (k Kind) IsResource() bool { return k == Mineral || k == Geyser }

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mineral":
		return Mineral, nil
	case "geyser":
		return Geyser, nil
	case "static", "static_structure":
		return StaticStructure, nil
	default:
		return 0, fmt.Errorf("unknown obstacle kind %q", s)
	}
}

// ObstacleInput describes one obstacle of the initial snapshot.
type ObstacleInput struct {
	Handle  uint64
	Kind    Kind
	TopLeft geo.TilePosition
	Size    geo.TilePosition
	Amount  int
}

// Input is the raw observation the analysis starts from.
type Input struct {
	TileWidth, TileHeight int
	Walkable              []bool // per minitile, row-major
	Buildable             []bool // per tile, row-major; optional
	Heights               []int  // per tile, row-major; optional
	Obstacles             []ObstacleInput
	StartingLocations     []geo.TilePosition
}

func (in *Input) validate() error {
	size := geo.Tp(in.TileWidth, in.TileHeight)
	inside := func(t geo.TilePosition) bool {
		return t.X >= 0 && t.Y >= 0 && t.X < size.X && t.Y < size.Y
	}

	handles := make(map[uint64]struct{}, len(in.Obstacles))
	for _, o := range in.Obstacles {
		if o.Kind < Mineral || o.Kind > StaticStructure {
			return fmt.Errorf("%w: obstacle %d has kind %d", ErrInvalidInput, o.Handle, o.Kind)
		}
		if _, dup := handles[o.Handle]; dup {
			return fmt.Errorf("%w: duplicate obstacle handle %d", ErrInvalidInput, o.Handle)
		}
		handles[o.Handle] = struct{}{}
		if o.Size.X <= 0 || o.Size.Y <= 0 {
			return fmt.Errorf("%w: obstacle %d has size %v", ErrInvalidInput, o.Handle, o.Size)
		}
		if !inside(o.TopLeft) || !inside(o.TopLeft.Add(o.Size.X-1, o.Size.Y-1)) {
			return fmt.Errorf("%w: obstacle %d footprint %v+%v outside %v", ErrInvalidInput, o.Handle, o.TopLeft, o.Size, size)
		}
	}
	for _, s := range in.StartingLocations {
		if !inside(s) {
			return fmt.Errorf("%w: starting location %v outside %v", ErrInvalidInput, s, size)
		}
	}
	return nil
}
