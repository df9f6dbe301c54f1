// Package worldgen places each kingdom on a shared noise field and derives
// its fixed travel distances from the terrain around it. Distances are rolled
// once at kingdom creation and never change.
package worldgen

import (
	"hash/fnv"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Distance bounds for any zone, in travel spaces.
const (
	MinDistance = 5
	MaxDistance = 25
)

// Distances holds a kingdom's travel distance from its capital to each zone.
type Distances struct {
	Market   int
	Mountain int
	Forest   int
	Coast    int
}

// ZoneDistances samples the world noise field at the kingdom's location.
// The same (seed, playerID) pair always yields the same distances.
func ZoneDistances(seed int64, playerID string) Distances {
	noise := opensimplex.NewNormalized(seed)

	// Hash the player identity to a stable spot on the field.
	h := fnv.New64a()
	h.Write([]byte(playerID))
	x := float64(h.Sum64()%100000) / 97.0
	y := float64(h.Sum64()/100000%100000) / 89.0

	return Distances{
		Market:   scale(noise.Eval2(x, y)),
		Mountain: scale(noise.Eval2(x+13.7, y)),
		Forest:   scale(noise.Eval2(x, y+27.1)),
		Coast:    scale(noise.Eval2(x+41.3, y+41.3)),
	}
}

// scale maps a normalized noise value in [0, 1] onto the distance range.
func scale(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	d := MinDistance + int(v*float64(MaxDistance-MinDistance))
	if d > MaxDistance {
		d = MaxDistance
	}
	return d
}
