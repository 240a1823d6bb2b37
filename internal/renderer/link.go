package renderer

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Frame layout: 4-byte little-endian body length, then a UTF-8 JSON body.
const (
	lengthPrefixSize = 4

	// MaxBodySize bounds inbound frame bodies on decode.
	MaxBodySize = 1 << 20
)

var ErrFrameTooLarge = errors.New("renderer: frame body too large")

type PlayAnimation struct {
	Type     string  `json:"type"`
	Play     string  `json:"play"`
	Impact   float64 `json:"impact"`
	Critical bool    `json:"critical"`
}

func NewPlayAnimation(play string, impact float64, critical bool) PlayAnimation {
	return PlayAnimation{Type: "play_animation", Play: play, Impact: impact, Critical: critical}
}

type QualitySettings struct {
	Type    string `json:"type"`
	Quality string `json:"quality"`
	FPS     int    `json:"fps"`
}

func NewQualitySettings(quality string, fps int) QualitySettings {
	return QualitySettings{Type: "quality_settings", Quality: quality, FPS: fps}
}

// Link is the optional outbound connection to the external renderer. Absence
// is an expected operating mode: every failure path collapses to "link
// absent" and gameplay continues without it.
type Link struct {
	mu   sync.Mutex
	conn net.Conn
}

func NewLink() *Link {
	return &Link{}
}

// Connect dials the renderer. Best effort; a failure leaves the link absent
// and is reported to the caller but must not be treated as fatal.
func (l *Link) Connect(addr string, timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("renderer: dial %s: %w", addr, err)
	}

	l.mu.Lock()
	if l.conn != nil {
		_ = l.conn.Close()
	}
	l.conn = conn
	l.mu.Unlock()

	log.Info().Str("addr", addr).Msg("renderer link established")
	return nil
}

func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn != nil
}

// Send serializes v and writes one frame. Failures are swallowed: the link
// drops to disconnected, the error is logged and counted, and the caller
// carries on in viewer-only mode.
func (l *Link) Send(v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("renderer message marshal failed")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return
	}
	if _, err := l.conn.Write(EncodeFrame(body)); err != nil {
		metricSendErrorsTotal.Add(1)
		log.Warn().Err(err).Msg("renderer send failed, dropping link")
		_ = l.conn.Close()
		l.conn = nil
		return
	}
	metricSendTotal.Add(1)
}

func (l *Link) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		_ = l.conn.Close()
		l.conn = nil
	}
}

// EncodeFrame prefixes body with its little-endian length.
func EncodeFrame(body []byte) []byte {
	buf := make([]byte, lengthPrefixSize+len(body))
	binary.LittleEndian.PutUint32(buf[:lengthPrefixSize], uint32(len(body)))
	copy(buf[lengthPrefixSize:], body)
	return buf
}

// ReadFrame reads one length-prefixed body from r.
func ReadFrame(r io.Reader) ([]byte, error) {
	var header [lengthPrefixSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	n := binary.LittleEndian.Uint32(header[:])
	if n > MaxBodySize {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}
