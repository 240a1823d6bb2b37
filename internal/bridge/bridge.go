package bridge

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/analysis"
	"diamond-bridge/internal/game"
	"diamond-bridge/internal/quality"
	"diamond-bridge/internal/renderer"
)

var (
	ErrStopped      = errors.New("bridge: stopped")
	ErrGameComplete = errors.New("bridge: game complete")
)

type Config struct {
	// QualityInterval is the period of the quality re-evaluation loop.
	QualityInterval time.Duration
	// Seed for the play generator and state machine; 0 means time-seeded.
	Seed int64
	// IntelTimeout bounds one commentary generation.
	IntelTimeout time.Duration
}

// Bridge owns the authoritative game state. Every mutation and every
// broadcast runs on the single Run loop, so no two play applications can
// interleave and broadcasts always reflect the state after the command that
// triggered them.
type Bridge struct {
	cfg     Config
	reg     *Registry
	link    *renderer.Link
	quality *quality.Controller
	intel   analysis.Generator
	gen     *game.Generator
	machine *game.Machine
	state   *game.State

	runCtx  context.Context
	ops     chan func()
	stopped chan struct{}
}

// New wires the bridge. A nil link means viewer-only mode from the start; a
// nil intel generator disables intelligence updates. A malformed outcome
// catalog surfaces here, before any connection is accepted.
func New(cfg Config, link *renderer.Link, intel analysis.Generator) (*Bridge, error) {
	if cfg.QualityInterval <= 0 {
		cfg.QualityInterval = 5 * time.Second
	}
	if cfg.IntelTimeout <= 0 {
		cfg.IntelTimeout = 10 * time.Second
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	gen, err := game.NewGenerator(rnd)
	if err != nil {
		return nil, err
	}
	if link == nil {
		link = renderer.NewLink()
	}

	return &Bridge{
		cfg:     cfg,
		reg:     NewRegistry(),
		link:    link,
		quality: quality.NewController(),
		intel:   intel,
		gen:     gen,
		machine: game.NewMachine(rnd),
		state:   game.NewState(NewID()),
		ops:     make(chan func(), 64),
		stopped: make(chan struct{}),
	}, nil
}

func (b *Bridge) Registry() *Registry { return b.reg }

func (b *Bridge) Link() *renderer.Link { return b.link }

func (b *Bridge) QualityStats() quality.Stats { return b.quality.Snapshot() }

// Run executes queued commands until ctx is cancelled, then closes every
// viewer. The quality loop runs alongside for the same lifetime.
func (b *Bridge) Run(ctx context.Context) {
	b.runCtx = ctx
	go b.quality.Run(ctx, b.cfg.QualityInterval, b.link)

	defer close(b.stopped)
	defer b.reg.CloseAll()
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-b.ops:
			fn()
		}
	}
}

func (b *Bridge) do(fn func()) {
	select {
	case b.ops <- fn:
	case <-b.stopped:
	}
}

// Attach registers a viewer and greets it with the current snapshot.
func (b *Bridge) Attach(c Conn) {
	b.do(func() {
		b.reg.Add(c)
		log.Info().Str("viewer", c.ID()).Int("viewers", b.reg.Len()).Msg("viewer connected")
		b.reg.SendTo(c, encodeStateMessage(msgConnectionEstablished, b.state.Snapshot()))
	})
}

func (b *Bridge) Detach(c Conn) {
	b.do(func() {
		if b.reg.Remove(c) {
			log.Info().Str("viewer", c.ID()).Int("viewers", b.reg.Len()).Msg("viewer disconnected")
		}
	})
}

// PlayBall applies one generated play and fans the result out.
func (b *Bridge) PlayBall(origin Conn) {
	b.do(func() { b.handlePlay(origin) })
}

// ResetGame replaces the state with a fresh initial game.
func (b *Bridge) ResetGame() {
	b.do(func() { b.handleReset() })
}

// RequestState sends the current snapshot to the requesting viewer only.
func (b *Bridge) RequestState(c Conn) {
	b.do(func() {
		b.reg.SendTo(c, encodeStateMessage(msgStateUpdate, b.state.Snapshot()))
	})
}

// UnknownCommand rejects one malformed or unrecognized viewer message. Other
// connections and the game state are unaffected.
func (b *Bridge) UnknownCommand(c Conn, cmdType string) {
	metricCommandsIgnored.Add(1)
	log.Warn().Str("viewer", c.ID()).Str("command", cmdType).Msg("ignoring unknown viewer command")
	b.reg.SendTo(c, encodeErrorMessage("unknown_command"))
}

// Snapshot returns the current state via the command loop.
func (b *Bridge) Snapshot(ctx context.Context) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	select {
	case b.ops <- func() { reply <- b.state.Snapshot() }:
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

// Play applies one play and returns the resulting snapshot; used by the MCP
// surface, which needs the post-mutation state synchronously. A completed
// game returns ErrGameComplete without mutating anything.
func (b *Bridge) Play(ctx context.Context) (game.Snapshot, error) {
	reply := make(chan playReply, 1)
	select {
	case b.ops <- func() {
		if b.state.Complete {
			metricCommandsIgnored.Add(1)
			reply <- playReply{err: ErrGameComplete}
			return
		}
		b.handlePlay(nil)
		reply <- playReply{snap: b.state.Snapshot()}
	}:
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	select {
	case r := <-reply:
		return r.snap, r.err
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

type playReply struct {
	snap game.Snapshot
	err  error
}

// Reset resets the game and returns the fresh snapshot.
func (b *Bridge) Reset(ctx context.Context) (game.Snapshot, error) {
	return b.roundTrip(ctx, func() { b.handleReset() })
}

func (b *Bridge) roundTrip(ctx context.Context, fn func()) (game.Snapshot, error) {
	reply := make(chan game.Snapshot, 1)
	select {
	case b.ops <- func() {
		fn()
		reply <- b.state.Snapshot()
	}:
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-b.stopped:
		return game.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	}
}

// handlePlay runs on the loop.
func (b *Bridge) handlePlay(origin Conn) {
	if b.state.Complete {
		metricCommandsIgnored.Add(1)
		if origin != nil {
			b.reg.SendTo(origin, encodeErrorMessage(errGameComplete))
		}
		return
	}

	outcome := b.gen.Next(b.state.Batting())
	if err := b.machine.Apply(b.state, outcome); err != nil {
		// The catalog is validated at startup; this path is defensive.
		log.Error().Err(err).Str("kind", string(outcome.Kind)).Msg("apply outcome failed")
		return
	}
	metricPlaysAppliedTotal.Add(1)

	b.broadcastState()
	b.link.Send(renderer.NewPlayAnimation(b.state.LastPlay, outcome.Impact, outcome.Critical()))
	if outcome.Critical() && b.intel != nil {
		b.spawnIntelligence()
	}
}

// handleReset runs on the loop.
func (b *Bridge) handleReset() {
	b.state = game.NewState(NewID())
	metricResetsTotal.Add(1)
	log.Info().Str("game_id", b.state.GameID).Msg("game reset")
	b.broadcastState()
}

func (b *Bridge) broadcastState() {
	msg := encodeStateMessage(msgStateUpdate, b.state.Snapshot())
	if msg == nil {
		return
	}
	start := time.Now()
	b.reg.Broadcast(msg)
	b.quality.Observe(time.Since(start))
}

// spawnIntelligence kicks off commentary generation off the loop; the result
// re-enters through the command channel so the broadcast stays serialized.
func (b *Bridge) spawnIntelligence() {
	gc := analysis.Context{
		Inning:       b.state.Inning,
		Half:         string(b.state.Half),
		HomeScore:    b.state.HomeScore,
		AwayScore:    b.state.AwayScore,
		LastPlay:     b.state.LastPlay,
		HomeMomentum: b.state.HomeMomentum,
		AwayMomentum: b.state.AwayMomentum,
	}
	runCtx := b.runCtx

	go func() {
		ctx, cancel := context.WithTimeout(runCtx, b.cfg.IntelTimeout)
		defer cancel()

		text, err := b.intel.Generate(ctx, gc)
		if err != nil {
			metricIntelErrorsTotal.Add(1)
			log.Warn().Err(err).Msg("intelligence generation failed")
			b.do(func() { b.reg.Broadcast(encodeErrorMessage(errIntelUnavailble)) })
			return
		}
		metricIntelGeneratedTotal.Add(1)
		b.do(func() { b.reg.Broadcast(encodeIntelligenceMessage(text)) })
	}()
}
