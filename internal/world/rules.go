package world

// Building kinds (§3, §6).
const (
	BuildingTownCenter = 0
	BuildingWall       = 1
	BuildingFarm       = 2
	BuildingHouse      = 3
	BuildingTower      = 4
	BuildingBarracks   = 5
	BuildingLumberMill = 6
	BuildingMiningCamp = 7
	BuildingWheatMill  = 8
)

// Unit kinds.
const (
	UnitWorker  = 0
	UnitWarrior = 1
)

// Resource kinds, internal encoding (component order of the resource
// tuple). The wire AssignGather payload uses a different encoding
// (2=wood, 3=stone, 4=gold, 5=food); see ResourceKindFromWire.
const (
	ResourceWood  = 0
	ResourceStone = 1
	ResourceGold  = 2
	ResourceFood  = 3
)

// ResourceKindFromWire converts the wire gather-kind encoding (2=wood,
// 3=stone, 4=gold, 5=food) to the internal ordinal. Any other value is
// treated as wood.
func ResourceKindFromWire(wire int) int {
	switch wire {
	case 2:
		return ResourceWood
	case 3:
		return ResourceStone
	case 4:
		return ResourceGold
	case 5:
		return ResourceFood
	default:
		return ResourceWood
	}
}

// Geometry (§4.1, GLOSSARY).
const (
	TileSize  = 16
	ChunkSize = 32
)

// Population (§3).
const BasePopCap = 5

// Carry cap (§6).
const CarryCap = 20.0

// Starting minimums (§4.1, §6).
const (
	StartWood  = 200.0
	StartStone = 160.0
	StartGold  = 60.0
	StartFood  = 300.0
)

// Default resource node amounts by kind (§3).
var defaultNodeAmount = [4]float64{
	ResourceWood:  120,
	ResourceStone: 120,
	ResourceGold:  120,
	ResourceFood:  100,
}

// Unit stats (§6).
const (
	WorkerHP     = 50
	WarriorHP    = 120
	WarriorDPS   = 30.0
	WarriorRange = 48.0
)

// Tower stats (§6).
const (
	TowerDamage = 25.0
	TowerRange  = 120.0
)

// TickPeriodMillis is the simulation cadence (§4.2).
const TickPeriodMillis = 200

// buildingSpec describes the static rules for one building kind.
type buildingSpec struct {
	Cost Resources
	HP   int
}

var buildingSpecs = map[int]buildingSpec{
	BuildingTownCenter: {Cost: Resources{}, HP: 800},
	BuildingWall:       {Cost: Resources{Wood: 1, Stone: 5}, HP: 200},
	BuildingFarm:       {Cost: Resources{Wood: 30}, HP: 220},
	BuildingHouse:      {Cost: Resources{Wood: 25}, HP: 220},
	BuildingTower:      {Cost: Resources{Stone: 40}, HP: 300},
	BuildingBarracks:   {Cost: Resources{Wood: 60}, HP: 260},
	BuildingLumberMill: {Cost: Resources{Wood: 30, Stone: 10}, HP: 220},
	BuildingMiningCamp: {Cost: Resources{Wood: 30, Stone: 10}, HP: 220},
	BuildingWheatMill:  {Cost: Resources{Wood: 30, Stone: 10}, HP: 220},
}

// unitSpec describes the static rules for one unit kind.
type unitSpec struct {
	Cost Resources
	HP   int
}

var unitSpecs = map[int]unitSpec{
	UnitWorker:  {Cost: Resources{Food: 50}, HP: WorkerHP},
	UnitWarrior: {Cost: Resources{Gold: 20, Food: 40}, HP: WarriorHP},
}

// BuildingSpec returns the cost/hp for a building kind and whether the kind
// is known.
func BuildingSpec(kind int) (Resources, int, bool) {
	spec, ok := buildingSpecs[kind]
	if !ok {
		return Resources{}, 0, false
	}
	return spec.Cost, spec.HP, true
}

// UnitSpec returns the cost/hp for a unit kind and whether the kind is known.
func UnitSpec(kind int) (Resources, int, bool) {
	spec, ok := unitSpecs[kind]
	if !ok {
		return Resources{}, 0, false
	}
	return spec.Cost, spec.HP, true
}

// DropOffKinds returns the building kinds that accept a deposit of the given
// resource kind. Town Center (kind 0) accepts everything and is appended by
// the caller.
func DropOffKinds(resourceKind int) []int {
	switch resourceKind {
	case ResourceWood:
		return []int{BuildingLumberMill}
	case ResourceStone, ResourceGold:
		return []int{BuildingMiningCamp}
	case ResourceFood:
		return []int{BuildingWheatMill}
	default:
		return nil
	}
}
