package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

// AssignGather inserts or overwrites a GatherTask for every listed unit
// index. The payload's kind arrives in the wire encoding (2=wood ... 5=food)
// and is remapped to the internal ordinal here, at the boundary. No
// validation beyond ownership is specified (§4.4 command table): an index
// the session doesn't own yet is simply dropped.
func AssignGather(s *world.Store, playerID uint64, p protocol.AssignGatherPayload) ([]protocol.Envelope, error) {
	target := world.Tile{X: p.TargetX, Y: p.TargetY}
	kind := world.ResourceKindFromWire(p.Kind)

	ok := s.Try(func(st *world.State) {
		for _, idx := range p.UnitIDs {
			if st.UnitAt(playerID, idx) == nil {
				continue
			}
			st.AssignGather(playerID, idx, target, kind)
		}
	})
	if !ok {
		return nil, ErrContended
	}
	return nil, nil
}
