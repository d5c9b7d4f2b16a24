package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geomap/internal/db"
	"github.com/udisondev/geomap/internal/geo"
	"github.com/udisondev/geomap/internal/terrain"
	"github.com/udisondev/geomap/internal/testutil"
)

// blockedCorridor is two rooms split by a static structure in the corridor
// joining them, with a mineral line in the left room.
func blockedCorridor(t *testing.T) *terrain.Map {
	t.Helper()
	const w, h = 24, 12
	in := terrain.Input{
		TileWidth:  w,
		TileHeight: h,
		Walkable:   make([]bool, w*h*16),
		Buildable:  make([]bool, w*h),
	}
	for ty := range h {
		for tx := range w {
			open := tx < 10 || tx > 13 || ty == 5
			in.Buildable[ty*w+tx] = open
			for dy := range 4 {
				for dx := range 4 {
					in.Walkable[(ty*4+dy)*w*4+tx*4+dx] = open
				}
			}
		}
	}
	in.Obstacles = append(in.Obstacles, terrain.ObstacleInput{
		Handle: 1, Kind: terrain.StaticStructure, TopLeft: geo.Tp(11, 5), Size: geo.Tp(2, 1),
	})
	for i := range 5 {
		in.Obstacles = append(in.Obstacles, terrain.ObstacleInput{
			Handle: uint64(10 + i), Kind: terrain.Mineral, TopLeft: geo.Tp(0, 3+i), Size: geo.Tp(2, 1), Amount: 1500,
		})
	}

	m, err := terrain.New(in, terrain.DefaultOptions())
	require.NoError(t, err)
	return m
}

func TestNewAnalysis(t *testing.T) {
	m := blockedCorridor(t)
	a := db.NewAnalysis("corridor", "fp", m)

	assert.Equal(t, "corridor", a.Name)
	assert.Equal(t, 24, a.TileWidth)
	assert.Equal(t, 12, a.TileHeight)
	assert.Equal(t, int(m.MaxAltitude()), a.MaxAltitude)
	require.Len(t, a.Areas, len(m.Areas()))
	require.Len(t, a.Connectors, len(m.Connectors()))
	require.Len(t, a.Bases, len(m.Bases()))

	require.Len(t, a.Connectors, 1)
	c := a.Connectors[0]
	assert.True(t, c.Pseudo)
	assert.True(t, c.Blocked)
	assert.Less(t, c.AreaA, c.AreaB)

	minerals := 0
	for _, area := range a.Areas {
		minerals += area.Minerals
	}
	assert.Equal(t, 5, minerals)
}

func TestAnalysisRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)
	repo := db.NewAnalysisRepository(pool)

	missing, err := repo.Load(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)

	want := db.NewAnalysis("corridor", "fp-1", blockedCorridor(t))
	id, err := repo.Save(ctx, want)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.Load(ctx, "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, want.Areas, got.Areas)
	assert.Equal(t, want.Connectors, got.Connectors)
	assert.Equal(t, want.Bases, got.Bases)

	// Saving the same fingerprint replaces the stored rows.
	want.Name = "renamed"
	want.Bases = nil
	again, err := repo.Save(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	got, err = repo.Load(ctx, "fp-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Empty(t, got.Bases)

	require.NoError(t, repo.Delete(ctx, "fp-1"))
	got, err = repo.Load(ctx, "fp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
