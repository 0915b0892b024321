package session

import (
	"go.uber.org/zap"

	"github.com/rack-games/holdfast-server/internal/protocol"
	"github.com/rack-games/holdfast-server/internal/session/command"
)

// dispatch decodes one upstream frame and routes it to the matching command
// handler (§4.4 command table). A payload that fails to decode is dropped
// without logging; an unknown type, validation error, or lock contention is
// logged at debug level and otherwise ignored — the client re-issues or
// re-syncs from the next broadcast (§7 c/d/e).
func (h *Handler) dispatch(playerID uint64, raw protocol.RawEnvelope, log *zap.Logger) {
	var (
		msgs []protocol.Envelope
		err  error
	)

	switch raw.Type {
	case protocol.MessageTypeUnitMove:
		var p protocol.UnitMovePayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.UnitMove(h.store, playerID, p)

	case protocol.MessageTypeUnitSync:
		var p protocol.UnitSyncPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.UnitSync(h.store, playerID, p)

	case protocol.MessageTypeBuild:
		var p protocol.BuildPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.Build(h.store, playerID, p)

	case protocol.MessageTypeAssignGather:
		var p protocol.AssignGatherPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.AssignGather(h.store, playerID, p)

	case protocol.MessageTypeTrainUnit:
		var p protocol.TrainUnitPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.TrainUnit(h.store, playerID, p)

	case protocol.MessageTypeSpawnUnit:
		msgs, err = command.SpawnUnit(h.store, playerID)

	case protocol.MessageTypeDeleteUnit:
		var p protocol.DeleteUnitPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.DeleteUnit(h.store, playerID, p)

	case protocol.MessageTypeDeleteBuilding:
		var p protocol.DeleteBuildingPayload
		if decErr := protocol.DecodePayload(raw.Payload, &p); decErr != nil {
			return
		}
		msgs, err = command.DeleteBuilding(h.store, playerID, p)

	default:
		log.Debug("unknown upstream message type, dropping", zap.String("type", string(raw.Type)))
		return
	}

	if err != nil {
		log.Debug("command dropped", zap.String("type", string(raw.Type)), zap.Error(err))
		return
	}

	for _, m := range msgs {
		h.bus.Publish(m)
	}
}
