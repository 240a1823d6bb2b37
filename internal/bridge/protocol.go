package bridge

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/game"
)

const (
	msgConnectionEstablished = "connection_established"
	msgStateUpdate           = "state_update"
	msgIntelligenceUpdate    = "live_intelligence_update"
	msgError                 = "error"
)

const (
	errGameComplete    = "game_complete"
	errIntelUnavailble = "intelligence_unavailable"
)

type stateEnvelope struct {
	Type        string        `json:"type"`
	State       game.Snapshot `json:"state"`
	TimestampMS int64         `json:"timestamp_ms"`
}

type intelligenceEnvelope struct {
	Type        string `json:"type"`
	Data        string `json:"data"`
	TimestampMS int64  `json:"timestamp_ms"`
}

type errorEnvelope struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func encodeStateMessage(msgType string, snap game.Snapshot) []byte {
	return encode(stateEnvelope{Type: msgType, State: snap, TimestampMS: time.Now().UnixMilli()})
}

func encodeIntelligenceMessage(text string) []byte {
	return encode(intelligenceEnvelope{Type: msgIntelligenceUpdate, Data: text, TimestampMS: time.Now().UnixMilli()})
}

func encodeErrorMessage(code string) []byte {
	return encode(errorEnvelope{Type: msgError, Error: code})
}

func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("viewer message marshal failed")
		return nil
	}
	return data
}
