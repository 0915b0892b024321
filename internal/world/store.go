package world

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/logger"
)

// Store is the single exclusive-lock-guarded aggregate (§4.1). Every
// mutation happens inside Do or Try; neither closure may suspend on I/O
// (§5 "A task must not suspend while holding the lock").
type Store struct {
	mu    sync.Mutex
	state *State
	log   *zap.Logger
}

// New creates an empty World Store.
func New() *Store {
	return &Store{state: newState(), log: logger.Get()}
}

func mintToken() string {
	return uuid.New().String()
}

// Do runs fn with the lock held, blocking until it can be acquired. Reserved
// for the welcome path and other rare bookkeeping reads (§5).
func (s *Store) Do(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Try attempts to acquire the lock without blocking. If successful it runs
// fn and returns true; on contention it returns false immediately without
// running fn (§5 "non-blocking try-acquire"; §9 "Lock-skip semantics").
func (s *Store) Try(fn func(*State)) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	fn(s.state)
	return true
}

// --- coarse operations named in §4.1 ------------------------------------------

// PlayerView mirrors protocol.PlayerView without importing the wire package
// from world (keeps world free of a protocol dependency).
type PlayerView struct {
	PlayerID uint64
	ChunkX   int
	ChunkY   int
}

// EnrollOrResume resolves an optional token to a player identity, minting a
// new player and token if needed, and installs that player's initial state
// (§4.1 enroll_or_resume + ensure_initial_state). Uses a blocking acquire:
// it only runs once per connection, at handshake time.
func (s *Store) EnrollOrResume(token string) (playerID uint64, chunk Chunk, issuedToken string, isNew bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playerID, chunk, issuedToken, isNew = s.state.EnrollOrResume(token)
	s.state.EnsureInitialState(playerID, chunk)
	return
}

// TileBlocked reports whether tile is occupied, acquiring the lock
// blockingly (read-only, not on the hot tick path).
func (s *Store) TileBlocked(tile Tile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TileBlocked(tile)
}

// FindBuilding looks up a building the owner holds by id.
func (s *Store) FindBuilding(owner, id uint64) (Building, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.state.FindBuilding(owner, id)
	if !ok {
		return Building{}, false
	}
	return *b, true
}

// IndexedUnit pairs a Unit with its wire identity (owner, index-in-vector).
type IndexedUnit struct {
	Unit
	Idx int
}

// SnapshotView gathers everything the welcome payload needs for playerID
// (§4.1 snapshot_view). Units carry their vector index since the wire
// protocol addresses a unit by (owner, idx).
func (s *Store) SnapshotView(playerID uint64) (players []PlayerView, units []IndexedUnit, buildings []Building, resources Resources, popCap, popUsed int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.state.players {
		players = append(players, PlayerView{PlayerID: p.ID, ChunkX: p.Chunk.X, ChunkY: p.Chunk.Y})
	}

	for _, v := range s.state.units {
		for idx, u := range v {
			units = append(units, IndexedUnit{Unit: *u, Idx: idx})
		}
	}

	buildings = s.state.Buildings()
	resources = s.state.Resources(playerID)
	popCap = s.state.PopCap(playerID)
	popUsed = s.state.PopUsed(playerID)
	return
}

// Logger exposes the store's scoped logger for collaborators (sim/session)
// that want consistent field names.
func (s *Store) Logger() *zap.Logger {
	return s.log
}
