package sim

import (
	"math"

	"github.com/rack-games/holdfast-server/internal/world"
)

func dist(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}

// tileCenterWorld returns the pixel center of a tile.
func tileCenterWorld(t world.Tile) (float64, float64) {
	x, y := t.ToWorld()
	return x + world.TileSize/2, y + world.TileSize/2
}
