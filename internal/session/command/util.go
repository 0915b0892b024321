package command

import (
	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/world"
)

func wireResources(r world.Resources) protocol.Resources {
	return protocol.Resources{Wood: r.Wood, Stone: r.Stone, Gold: r.Gold, Food: r.Food}
}

func resourceUpdate(s *world.State, playerID uint64) protocol.Envelope {
	return protocol.Envelope{
		Type: protocol.MessageTypeResourceUpdate,
		Payload: protocol.ResourceUpdatePayload{
			PlayerID:  playerID,
			Resources: wireResources(s.Resources(playerID)),
			PopCap:    s.PopCap(playerID),
			PopUsed:   s.PopUsed(playerID),
		},
	}
}
