package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/bridge"
	"diamond-bridge/internal/config"
)

type Handlers struct {
	bridge *bridge.Bridge
	cfg    config.ServerConfig
}

func NewHandlers(b *bridge.Bridge, cfg config.ServerConfig) *Handlers {
	return &Handlers{bridge: b, cfg: cfg}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.bridge.Snapshot(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "bridge": "down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "bridge": "up"})
	}
}

func (h *Handlers) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := h.bridge.Snapshot(r.Context())
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, bridge.ErrStopped) {
				status = http.StatusServiceUnavailable
			}
			WriteHTTPError(w, status, "bridge_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (h *Handlers) Quality() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, h.bridge.QualityStats())
	}
}

type rendererConnectRequest struct {
	Addr string `json:"addr"`
}

// RendererConnect dials the external renderer on demand. The bridge never
// retries a dropped renderer by itself; an operator hits this route instead.
func (h *Handlers) RendererConnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// An empty or malformed body falls back to the configured address.
		var req rendererConnectRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		addr := req.Addr
		if addr == "" {
			addr = h.cfg.RendererAddr
		}
		if addr == "" {
			WriteHTTPError(w, http.StatusBadRequest, "renderer_addr_required")
			return
		}

		metricRendererConnectTotal.Add(1)
		if err := h.bridge.Link().Connect(addr, h.cfg.RendererDialTimeout()); err != nil {
			metricRendererConnectErrors.Add(1)
			log.Warn().Err(err).Str("addr", addr).Msg("renderer connect failed")
			writeJSON(w, http.StatusBadGateway, map[string]any{"connected": false, "addr": addr, "error": err.Error()})
			return
		}
		log.Info().Str("addr", addr).Msg("renderer connected")
		writeJSON(w, http.StatusOK, map[string]any{"connected": true, "addr": addr})
	}
}

func (h *Handlers) RendererStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"connected": h.bridge.Link().Connected()})
	}
}
