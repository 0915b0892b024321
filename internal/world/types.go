// Package world holds the single authoritative in-memory game model (§3) and
// the exclusive-lock Store that guards all mutation of it (§4.1), grounded
// on the mutex-guarded map + snapshot-on-read pattern used by the teacher's
// internal/repository package.
package world

import "math"

// Resources is the four-component resource tuple. All components must stay
// non-negative; spends are applied atomically (§3).
type Resources struct {
	Wood  float64
	Stone float64
	Gold  float64
	Food  float64
}

// Add returns the component-wise sum.
func (r Resources) Add(o Resources) Resources {
	return Resources{Wood: r.Wood + o.Wood, Stone: r.Stone + o.Stone, Gold: r.Gold + o.Gold, Food: r.Food + o.Food}
}

// Sub returns the component-wise difference.
func (r Resources) Sub(o Resources) Resources {
	return Resources{Wood: r.Wood - o.Wood, Stone: r.Stone - o.Stone, Gold: r.Gold - o.Gold, Food: r.Food - o.Food}
}

// GEq reports whether every component of r is >= the matching component of o.
func (r Resources) GEq(o Resources) bool {
	return r.Wood >= o.Wood && r.Stone >= o.Stone && r.Gold >= o.Gold && r.Food >= o.Food
}

// Max returns the component-wise maximum.
func (r Resources) Max(o Resources) Resources {
	return Resources{
		Wood:  maxF(r.Wood, o.Wood),
		Stone: maxF(r.Stone, o.Stone),
		Gold:  maxF(r.Gold, o.Gold),
		Food:  maxF(r.Food, o.Food),
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Component returns the resource value addressed by one of the Resource*
// kind constants.
func (r Resources) Component(kind int) float64 {
	switch kind {
	case ResourceWood:
		return r.Wood
	case ResourceStone:
		return r.Stone
	case ResourceGold:
		return r.Gold
	case ResourceFood:
		return r.Food
	default:
		return 0
	}
}

// WithComponent returns a copy of r with the named component replaced.
func (r Resources) WithComponent(kind int, value float64) Resources {
	switch kind {
	case ResourceWood:
		r.Wood = value
	case ResourceStone:
		r.Stone = value
	case ResourceGold:
		r.Gold = value
	case ResourceFood:
		r.Food = value
	}
	return r
}

// Tile is an integer tile coordinate.
type Tile struct {
	X int
	Y int
}

// Chunk is an integer chunk coordinate (§4.1).
type Chunk struct {
	X int
	Y int
}

// CenterTile returns the tile at the geometric center of the chunk.
func (c Chunk) CenterTile() Tile {
	return Tile{X: c.X*ChunkSize + ChunkSize/2, Y: c.Y*ChunkSize + ChunkSize/2}
}

// ToWorld converts a tile coordinate to the world-pixel coordinate of its
// top-left corner.
func (t Tile) ToWorld() (float64, float64) {
	return float64(t.X * TileSize), float64(t.Y * TileSize)
}

// TileOf floors a world-pixel coordinate down to its containing tile. Must
// use math.Floor rather than integer division: truncating toward zero gives
// the wrong tile for negative coordinates (e.g. x=-7.5 truncates to tile 0
// instead of flooring to tile -1), and roughly half of all players are
// assigned a home chunk with a negative coordinate (§ SpiralChunk).
func TileOf(x, y float64) Tile {
	return Tile{X: int(math.Floor(x / TileSize)), Y: int(math.Floor(y / TileSize))}
}

// Player is a durable identity (§3). PlayerID is assigned monotonically at
// first join and never reused.
type Player struct {
	ID    uint64
	Chunk Chunk
	Token string
}

// Unit is addressed by (owner, index-in-owner's-vector) (§3).
type Unit struct {
	Owner uint64
	Kind  int
	X     float64
	Y     float64
	HP    int
	Carry Resources
}

// Tile returns the tile the unit currently occupies.
func (u Unit) Tile() Tile {
	return TileOf(u.X, u.Y)
}

// Building is a stable-id structure sitting on exactly one tile (§3).
type Building struct {
	ID    uint64
	Owner uint64
	Kind  int
	Tile  Tile
	HP    int
}

// BuildTask tracks in-progress construction, keyed by tile (§3).
type BuildTask struct {
	Owner    uint64
	Kind     int
	Tile     Tile
	Progress float64
}

// TrainTask tracks in-progress unit training (§3). Populated only by
// internal flows per the open question in spec §9 — TrainUnit itself spawns
// synchronously.
type TrainTask struct {
	Owner       uint64
	Kind        int
	Progress    float64
	OriginChunk Chunk
}

// GatherTask is keyed by (owner, unit index) (§3).
type GatherTask struct {
	Owner  uint64
	Unit   int
	Target Tile
	Kind   int
}

// ResourceNode is a harvestable point keyed by tile (§3).
type ResourceNode struct {
	Tile      Tile
	Kind      int
	Remaining float64
}
