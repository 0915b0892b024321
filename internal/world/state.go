package world

// gatherKey addresses a GatherTask by (owner, unit index) (§3).
type gatherKey struct {
	Owner uint64
	Unit  int
}

// State is the full in-memory aggregate (§3). A State is only ever touched
// from inside a Store.Do/Try closure, which holds the Store's exclusive
// lock for the closure's duration — nothing outside world ever retains a
// pointer to it, satisfying the "sessions never hold references into the
// store across suspension points" rule (§3 Ownership model).
type State struct {
	nextPlayerID   uint64
	nextBuildingID uint64

	players map[uint64]*Player
	tokens  map[string]uint64

	units map[uint64][]*Unit // owner -> compact vector, index is wire identity

	buildings       map[uint64]*Building
	buildingsByTile map[Tile]uint64

	buildTasks  map[Tile]*BuildTask
	trainTasks  []*TrainTask
	gatherTasks map[gatherKey]*GatherTask
	nodes       map[Tile]*ResourceNode

	resources map[uint64]Resources
	popCap    map[uint64]int
}

func newState() *State {
	return &State{
		nextPlayerID:    1,
		players:         make(map[uint64]*Player),
		tokens:          make(map[string]uint64),
		units:           make(map[uint64][]*Unit),
		buildings:       make(map[uint64]*Building),
		buildingsByTile: make(map[Tile]uint64),
		buildTasks:      make(map[Tile]*BuildTask),
		gatherTasks:     make(map[gatherKey]*GatherTask),
		nodes:           make(map[Tile]*ResourceNode),
		resources:       make(map[uint64]Resources),
		popCap:          make(map[uint64]int),
	}
}

// --- players / tokens -----------------------------------------------------

// EnrollOrResume returns the player id for an existing token, or mints a new
// player id, chunk, and token if the token is absent or unknown (§4.1).
func (s *State) EnrollOrResume(token string) (playerID uint64, chunk Chunk, newToken string, isNew bool) {
	if token != "" {
		if id, ok := s.tokens[token]; ok {
			return id, s.players[id].Chunk, token, false
		}
	}

	id := s.nextPlayerID
	s.nextPlayerID++
	// Player ids are 1-based on the wire; the spiral walk is 0-based, so the
	// first player lands on the origin chunk.
	c := SpiralChunk(id - 1)
	fresh := mintToken()

	s.players[id] = &Player{ID: id, Chunk: c, Token: fresh}
	s.tokens[fresh] = id

	return id, c, fresh, true
}

// Player returns the player record for an id, if present.
func (s *State) Player(id uint64) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Players returns a snapshot slice of all known players.
func (s *State) Players() []Player {
	out := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	return out
}

// --- initial state ----------------------------------------------------------

// EnsureInitialState installs starting resources, baseline pop cap, two
// worker units, and a Town Center if this player doesn't already have one
// (§4.1). Safe to call repeatedly (idempotent past the first call).
func (s *State) EnsureInitialState(playerID uint64, chunk Chunk) {
	existing := s.resources[playerID]
	s.resources[playerID] = existing.Max(Resources{Wood: StartWood, Stone: StartStone, Gold: StartGold, Food: StartFood})

	if _, ok := s.popCap[playerID]; !ok {
		s.popCap[playerID] = BasePopCap
	}

	center := chunk.CenterTile()
	if _, occupied := s.buildingsByTile[center]; !occupied {
		if _, hasTC := s.findTownCenter(playerID); !hasTC {
			s.insertBuilding(playerID, BuildingTownCenter, center)
		}
	}

	if len(s.units[playerID]) == 0 {
		for i := 0; i < 2; i++ {
			x, y := WorkerGridPosition(center, i)
			s.appendUnit(playerID, &Unit{Owner: playerID, Kind: UnitWorker, X: x, Y: y, HP: WorkerHP})
		}
	}
}

func (s *State) findTownCenter(owner uint64) (*Building, bool) {
	for _, b := range s.buildings {
		if b.Owner == owner && b.Kind == BuildingTownCenter {
			return b, true
		}
	}
	return nil, false
}

// --- units ------------------------------------------------------------------

// Units returns a snapshot copy of a player's unit vector.
func (s *State) Units(owner uint64) []Unit {
	src := s.units[owner]
	out := make([]Unit, len(src))
	for i, u := range src {
		out[i] = *u
	}
	return out
}

// AllUnits returns a snapshot of every player's units.
func (s *State) AllUnits() map[uint64][]Unit {
	out := make(map[uint64][]Unit, len(s.units))
	for owner := range s.units {
		out[owner] = s.Units(owner)
	}
	return out
}

// UnitAt returns a pointer to the live unit at (owner, idx), or nil.
func (s *State) UnitAt(owner uint64, idx int) *Unit {
	v := s.units[owner]
	if idx < 0 || idx >= len(v) {
		return nil
	}
	return v[idx]
}

func (s *State) appendUnit(owner uint64, u *Unit) int {
	s.units[owner] = append(s.units[owner], u)
	return len(s.units[owner]) - 1
}

// SpawnUnit appends a unit to owner's vector and returns its index.
func (s *State) SpawnUnit(owner uint64, u Unit) int {
	return s.appendUnit(owner, &u)
}

// RemoveUnit deletes the unit at (owner, idx), shifting later indices down
// to keep the vector compact (§3 Unit invariant).
func (s *State) RemoveUnit(owner uint64, idx int) bool {
	v := s.units[owner]
	if idx < 0 || idx >= len(v) {
		return false
	}
	s.units[owner] = append(v[:idx], v[idx+1:]...)
	return true
}

// PopUsed is the count of live units owned by playerID.
func (s *State) PopUsed(playerID uint64) int {
	return len(s.units[playerID])
}

// --- buildings ----------------------------------------------------------------

// Buildings returns a snapshot of every building.
func (s *State) Buildings() []Building {
	out := make([]Building, 0, len(s.buildings))
	for _, b := range s.buildings {
		out = append(out, *b)
	}
	return out
}

// FindBuilding returns the building owned by owner with the given id.
func (s *State) FindBuilding(owner, id uint64) (*Building, bool) {
	b, ok := s.buildings[id]
	if !ok || b.Owner != owner {
		return nil, false
	}
	return b, true
}

// BuildingByID returns any building by its stable id, regardless of owner.
func (s *State) BuildingByID(id uint64) (*Building, bool) {
	b, ok := s.buildings[id]
	return b, ok
}

// BuildingAt returns the building occupying a tile, if any.
func (s *State) BuildingAt(tile Tile) (*Building, bool) {
	id, ok := s.buildingsByTile[tile]
	if !ok {
		return nil, false
	}
	return s.buildings[id], true
}

func (s *State) insertBuilding(owner uint64, kind int, tile Tile) *Building {
	_, hp, _ := BuildingSpec(kind)
	s.nextBuildingID++
	b := &Building{ID: s.nextBuildingID, Owner: owner, Kind: kind, Tile: tile, HP: hp}
	s.buildings[b.ID] = b
	s.buildingsByTile[tile] = b.ID
	return b
}

// InsertBuilding is the exported form used once a BuildTask finalizes or an
// admin/bootstrap path needs to place a building directly.
func (s *State) InsertBuilding(owner uint64, kind int, tile Tile) *Building {
	return s.insertBuilding(owner, kind, tile)
}

// RemoveBuilding deletes a building by id.
func (s *State) RemoveBuilding(id uint64) (*Building, bool) {
	b, ok := s.buildings[id]
	if !ok {
		return nil, false
	}
	delete(s.buildings, id)
	delete(s.buildingsByTile, b.Tile)
	return b, true
}

// TileBlocked reports whether a building or any unit occupies the tile
// (§4.1).
func (s *State) TileBlocked(tile Tile) bool {
	if _, ok := s.buildingsByTile[tile]; ok {
		return true
	}
	for _, units := range s.units {
		for _, u := range units {
			if u.Tile() == tile {
				return true
			}
		}
	}
	return false
}

// --- resources / population --------------------------------------------------

// Resources returns a player's current resource tuple.
func (s *State) Resources(playerID uint64) Resources {
	return s.resources[playerID]
}

// SetResources overwrites a player's resource tuple.
func (s *State) SetResources(playerID uint64, r Resources) {
	s.resources[playerID] = r
}

// Spend attempts to atomically deduct cost from playerID's resources.
// Returns false (no mutation) if any resulting component would go negative.
func (s *State) Spend(playerID uint64, cost Resources) bool {
	cur := s.resources[playerID]
	next := cur.Sub(cost)
	if !next.GEq(Resources{}) {
		return false
	}
	s.resources[playerID] = next
	return true
}

// Refund adds amount back to playerID's resources.
func (s *State) Refund(playerID uint64, amount Resources) {
	s.resources[playerID] = s.resources[playerID].Add(amount)
}

// PopCap returns a player's current population cap.
func (s *State) PopCap(playerID uint64) int {
	cap, ok := s.popCap[playerID]
	if !ok {
		return BasePopCap
	}
	return cap
}

// AdjustPopCap changes a player's pop cap by delta, floored at BasePopCap.
func (s *State) AdjustPopCap(playerID uint64, delta int) {
	next := s.PopCap(playerID) + delta
	if next < BasePopCap {
		next = BasePopCap
	}
	s.popCap[playerID] = next
}

// --- build tasks --------------------------------------------------------------

// BuildTasks returns a snapshot of all in-flight build tasks.
func (s *State) BuildTasks() []BuildTask {
	out := make([]BuildTask, 0, len(s.buildTasks))
	for _, t := range s.buildTasks {
		out = append(out, *t)
	}
	return out
}

// StartBuild inserts a new BuildTask at progress 0. Returns false if the
// tile already has a task (§3 BuildTask invariant).
func (s *State) StartBuild(owner uint64, kind int, tile Tile) bool {
	if _, ok := s.buildTasks[tile]; ok {
		return false
	}
	s.buildTasks[tile] = &BuildTask{Owner: owner, Kind: kind, Tile: tile}
	return true
}

// UpdateBuildProgress sets the progress of the task at tile, if present.
func (s *State) UpdateBuildProgress(tile Tile, progress float64) {
	if t, ok := s.buildTasks[tile]; ok {
		t.Progress = progress
	}
}

// CancelBuild removes the build task at tile and returns it.
func (s *State) CancelBuild(tile Tile) (*BuildTask, bool) {
	t, ok := s.buildTasks[tile]
	if !ok {
		return nil, false
	}
	delete(s.buildTasks, tile)
	return t, true
}

// --- train tasks --------------------------------------------------------------

// TrainTasks returns a snapshot of all in-flight train tasks.
func (s *State) TrainTasks() []TrainTask {
	out := make([]TrainTask, len(s.trainTasks))
	for i, t := range s.trainTasks {
		out[i] = *t
	}
	return out
}

// QueueTrain appends a new TrainTask.
func (s *State) QueueTrain(owner uint64, kind int, origin Chunk) {
	s.trainTasks = append(s.trainTasks, &TrainTask{Owner: owner, Kind: kind, OriginChunk: origin})
}

// AdvanceTrainTasks increments progress on every task by delta and returns
// (and removes) the tasks that reached completion.
func (s *State) AdvanceTrainTasks(delta float64) []TrainTask {
	var done []TrainTask
	remaining := s.trainTasks[:0]
	for _, t := range s.trainTasks {
		t.Progress += delta
		if t.Progress >= 1 {
			done = append(done, *t)
			continue
		}
		remaining = append(remaining, t)
	}
	s.trainTasks = remaining
	return done
}

// --- gather tasks -------------------------------------------------------------

// GatherTasks returns a snapshot of all in-flight gather tasks.
func (s *State) GatherTasks() []GatherTask {
	out := make([]GatherTask, 0, len(s.gatherTasks))
	for _, t := range s.gatherTasks {
		out = append(out, *t)
	}
	return out
}

// AssignGather inserts or overwrites the gather task for (owner, unitIdx).
func (s *State) AssignGather(owner uint64, unitIdx int, target Tile, kind int) {
	s.gatherTasks[gatherKey{Owner: owner, Unit: unitIdx}] = &GatherTask{Owner: owner, Unit: unitIdx, Target: target, Kind: kind}
}

// ClearGather removes the gather task for (owner, unitIdx).
func (s *State) ClearGather(owner uint64, unitIdx int) {
	delete(s.gatherTasks, gatherKey{Owner: owner, Unit: unitIdx})
}

// ClearGathersTargeting removes every gather task aimed at tile (used when a
// ResourceNode is exhausted and removed).
func (s *State) ClearGathersTargeting(tile Tile) {
	for k, t := range s.gatherTasks {
		if t.Target == tile {
			delete(s.gatherTasks, k)
		}
	}
}

// --- resource nodes -----------------------------------------------------------

// Node returns the resource node at tile, if materialized.
func (s *State) Node(tile Tile) (*ResourceNode, bool) {
	n, ok := s.nodes[tile]
	return n, ok
}

// EnsureNode lazily materializes a ResourceNode at tile with the default
// starting amount for kind, if one doesn't already exist (§4.2 Phase D).
// An out-of-range kind gets the wood amount rather than panicking.
func (s *State) EnsureNode(tile Tile, kind int) *ResourceNode {
	if n, ok := s.nodes[tile]; ok {
		return n
	}
	amount := defaultNodeAmount[ResourceWood]
	if kind >= 0 && kind < len(defaultNodeAmount) {
		amount = defaultNodeAmount[kind]
	}
	n := &ResourceNode{Tile: tile, Kind: kind, Remaining: amount}
	s.nodes[tile] = n
	return n
}

// RemoveNode deletes the node at tile and clears any gather task targeting
// it (§3 ResourceNode lifecycle).
func (s *State) RemoveNode(tile Tile) {
	delete(s.nodes, tile)
	s.ClearGathersTargeting(tile)
}
