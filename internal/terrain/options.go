package terrain

import "github.com/udisondev/geomap/internal/geo"

// Options holds the analysis tunables. Distances are in minitiles unless the
// name says tiles.
type Options struct {
	MaxAltitude geo.Altitude `yaml:"max_altitude"`

	// Provisional regions meeting at a cell are merged when the smaller one
	// has fewer cells or a lower top than these, or when the cell altitude is
	// at least MergeAltitudeRatio of either top.
	MergeMinSize       int          `yaml:"merge_min_size"`
	MergeMinAltitude   geo.Altitude `yaml:"merge_min_altitude"`
	MergeAltitudeRatio float64      `yaml:"merge_altitude_ratio"`
	// Regions never split within this many tiles of a starting location.
	StartMergeRadius int `yaml:"start_merge_radius"`
	AreaMinMiniTiles int `yaml:"area_min_minitiles"`
	ClusterMinDist   int `yaml:"cluster_min_dist"`

	// Flood size a door must reach to count as a true door.
	BlockingFloodStatic  int `yaml:"blocking_flood_static"`
	BlockingFloodMineral int `yaml:"blocking_flood_mineral"`

	MinMineralAmount      int `yaml:"min_mineral_amount"`
	MinGeyserAmount       int `yaml:"min_geyser_amount"`
	BlockingMineralAmount int `yaml:"blocking_mineral_amount"`
	ResourceExclusion     int `yaml:"resource_exclusion"`
	BaseWidth             int `yaml:"base_width"`
	BaseHeight            int `yaml:"base_height"`

	MaxTilesBetweenBaseAndResources int `yaml:"max_tiles_between_base_and_resources"`
	MaxTilesBetweenStartAndBase     int `yaml:"max_tiles_between_start_and_base"`

	// StrictInvariants makes invariant violations panic instead of returning
	// an InternalError. Meant for debug runs and tests.
	StrictInvariants bool `yaml:"strict_invariants"`
}

// DefaultOptions returns the tunables the analyser was calibrated with.
func DefaultOptions() Options {
	return Options{
		MaxAltitude:                     geo.DefaultMaxAltitude,
		MergeMinSize:                    80,
		MergeMinAltitude:                80,
		MergeAltitudeRatio:              0.90,
		StartMergeRadius:                3,
		AreaMinMiniTiles:                64,
		ClusterMinDist:                  17,
		BlockingFloodStatic:             10,
		BlockingFloodMineral:            400,
		MinMineralAmount:                40,
		MinGeyserAmount:                 300,
		BlockingMineralAmount:           8,
		ResourceExclusion:               3,
		BaseWidth:                       5,
		BaseHeight:                      5,
		MaxTilesBetweenBaseAndResources: 10,
		MaxTilesBetweenStartAndBase:     3,
	}
}
