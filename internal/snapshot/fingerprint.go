package snapshot

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/geomap/internal/terrain"
)

// Fingerprint identifies an observation by content: two inputs with the
// same layers, obstacles and starting locations share it, whatever the
// file they came from.
func Fingerprint(in terrain.Input) string {
	h, _ := blake2b.New256(nil) // only fails for oversized keys

	var buf [8]byte
	putInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	putBools := func(bs []bool) {
		putInt(len(bs))
		packed := make([]byte, (len(bs)+7)/8)
		for i, b := range bs {
			if b {
				packed[i/8] |= 1 << (i % 8)
			}
		}
		h.Write(packed)
	}

	putInt(in.TileWidth)
	putInt(in.TileHeight)
	putBools(in.Walkable)
	putBools(in.Buildable)
	putInt(len(in.Heights))
	for _, v := range in.Heights {
		putInt(v)
	}
	putInt(len(in.Obstacles))
	for _, o := range in.Obstacles {
		putInt(int(o.Handle))
		putInt(int(o.Kind))
		putInt(o.TopLeft.X)
		putInt(o.TopLeft.Y)
		putInt(o.Size.X)
		putInt(o.Size.Y)
		putInt(o.Amount)
	}
	putInt(len(in.StartingLocations))
	for _, p := range in.StartingLocations {
		putInt(p.X)
		putInt(p.Y)
	}
	return hex.EncodeToString(h.Sum(nil))
}
