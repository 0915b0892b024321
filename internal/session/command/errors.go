// Package command implements validate-then-apply handlers for each upstream
// message the Session Handler can receive (spec §4.4 command table).
// Grounded on the teacher's one-file-per-operation layout
// (rackaracka123-terraforming-mars internal/action), generalized from its
// service-layer calls to direct *world.Store mutation since this domain has
// no separate service/repository split.
package command

import "errors"

// Validation failures are silently dropped per spec §7(d); handlers return
// these sentinels so the dispatcher can log at debug level without string
// matching.
var (
	ErrTileBlocked           = errors.New("tile is blocked")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrPopCapReached         = errors.New("population cap reached")
	ErrNotOwned              = errors.New("not owned by this player")
	ErrUnknownKind           = errors.New("unknown kind")
	ErrNotFound              = errors.New("not found")
	ErrContended             = errors.New("store lock contended")
)
