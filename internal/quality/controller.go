package quality

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/renderer"
)

type Level string

const (
	LevelUltra    Level = "ultra"
	LevelHigh     Level = "high"
	LevelStandard Level = "standard"
)

const (
	ultraLatencyCeiling = 10 * time.Millisecond
	highLatencyCeiling  = 30 * time.Millisecond

	ultraFPS    = 60
	highFPS     = 30
	standardFPS = 24
)

type Settings struct {
	Level Level
	FPS   int
}

// Classify maps an average broadcast latency onto a quality tier.
func Classify(avg time.Duration) Settings {
	switch {
	case avg < ultraLatencyCeiling:
		return Settings{Level: LevelUltra, FPS: ultraFPS}
	case avg < highLatencyCeiling:
		return Settings{Level: LevelHigh, FPS: highFPS}
	default:
		return Settings{Level: LevelStandard, FPS: standardFPS}
	}
}

// Sink receives quality settings; satisfied by *renderer.Link.
type Sink interface {
	Connected() bool
	Send(v any)
}

// Controller accumulates broadcast latency and periodically re-derives the
// quality tier, pushing it to the renderer when one is attached.
type Controller struct {
	mu           sync.Mutex
	updates      int64
	totalLatency time.Duration
	current      Settings
}

func NewController() *Controller {
	return &Controller{current: Classify(0)}
}

// Observe records the latency of one broadcast pass.
func (c *Controller) Observe(d time.Duration) {
	c.mu.Lock()
	c.updates++
	c.totalLatency += d
	c.mu.Unlock()
}

// Average returns accumulated latency over updates sent, zero before the
// first update.
func (c *Controller) Average() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.averageLocked()
}

func (c *Controller) averageLocked() time.Duration {
	if c.updates == 0 {
		return 0
	}
	return c.totalLatency / time.Duration(c.updates)
}

// Evaluate reclassifies from the running average and returns the new tier.
func (c *Controller) Evaluate() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = Classify(c.averageLocked())
	return c.current
}

func (c *Controller) Current() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

type Stats struct {
	Quality          string  `json:"quality"`
	FPS              int     `json:"fps"`
	UpdatesSent      int64   `json:"updates_sent"`
	AverageLatencyMS float64 `json:"average_latency_ms"`
}

func (c *Controller) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Quality:          string(c.current.Level),
		FPS:              c.current.FPS,
		UpdatesSent:      c.updates,
		AverageLatencyMS: float64(c.averageLocked()) / float64(time.Millisecond),
	}
}

// Run re-evaluates every interval until ctx is cancelled. The tick itself
// never touches game state; it only reads metrics and writes to the sink.
func (c *Controller) Run(ctx context.Context, interval time.Duration, sink Sink) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prev := c.Current()
			s := c.Evaluate()
			metricTicksTotal.Add(1)
			if s != prev {
				log.Info().
					Str("quality", string(s.Level)).
					Int("fps", s.FPS).
					Dur("avg_latency", c.Average()).
					Msg("quality tier changed")
			}
			if sink != nil && sink.Connected() {
				sink.Send(renderer.NewQualitySettings(string(s.Level), s.FPS))
			}
		}
	}
}
