package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrUnknownKind = errors.New("unknown outcome kind")

const (
	momentumScale = 20.0
	hitRunChance  = 0.30
)

// Machine applies generated outcomes to the game state. Mutation is in-place;
// the bridge loop holds exclusive ownership of both the machine and the state.
type Machine struct {
	rnd *rand.Rand
}

func NewMachine(rnd *rand.Rand) *Machine {
	return &Machine{rnd: rnd}
}

// Apply advances the state by one play: momentum, scoring, outs and
// half-inning flips, base occupancy, and the last-play record.
func (m *Machine) Apply(s *State, o Outcome) error {
	spec, ok := kindSpecs[o.Kind]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
	}

	batting := s.Batting()
	s.shiftMomentum(batting, o.Impact*momentumScale)

	runs := 0
	switch o.Kind {
	case KindHomerun:
		runs = 1 + m.rnd.Intn(4)
		s.addRuns(batting, runs)
		s.Bases = Bases{}
	case KindSingle:
		runs = m.maybeRun(s, batting)
		s.advanceRunners(1, string(batting))
	case KindDouble:
		runs = m.maybeRun(s, batting)
		s.advanceRunners(2, string(batting))
	case KindTriple:
		runs = m.maybeRun(s, batting)
		s.advanceRunners(3, string(batting))
	case KindWalk, KindHitByPitch:
		s.forceAdvance(string(batting))
	case KindError:
		s.advanceRunners(1, string(batting))
	case KindStrikeout, KindGroundout, KindFlyout:
		s.Outs++
	}

	// Pitch count the plate appearance ended on. Tracked for display only;
	// it never drives a transition.
	s.Balls = m.rnd.Intn(4)
	s.Strikes = m.rnd.Intn(3)

	if s.Outs >= 3 {
		s.flipHalf()
	}

	s.LastPlay = describe(o, batting, spec, runs)
	s.CriticalPlay = o.Critical()
	s.refreshComplete()
	return nil
}

func (m *Machine) maybeRun(s *State, batting Team) int {
	if m.rnd.Float64() < hitRunChance {
		s.addRuns(batting, 1)
		return 1
	}
	return 0
}

// advanceRunners moves every occupant up n bases (runners pushed past third
// simply leave the bases; scoring is handled separately) and places the
// batter on base n.
func (s *State) advanceRunners(n int, batter string) {
	occupants := [3]string{s.Bases.First, s.Bases.Second, s.Bases.Third}
	var next [3]string
	for i, occ := range occupants {
		if occ == "" {
			continue
		}
		if i+n < 3 {
			next[i+n] = occ
		}
	}
	if n >= 1 && n <= 3 {
		next[n-1] = batter
	}
	s.Bases = Bases{First: next[0], Second: next[1], Third: next[2]}
}

// forceAdvance walks the batter to first, pushing only forced runners.
func (s *State) forceAdvance(batter string) {
	if s.Bases.First == "" {
		s.Bases.First = batter
		return
	}
	if s.Bases.Second == "" {
		s.Bases.Second = s.Bases.First
		s.Bases.First = batter
		return
	}
	if s.Bases.Third == "" {
		s.Bases.Third = s.Bases.Second
	}
	s.Bases.Second = s.Bases.First
	s.Bases.First = batter
}

func describe(o Outcome, batting Team, spec kindSpec, runs int) string {
	desc := fmt.Sprintf("%s %s", batting, spec.phrase)
	if o.Batted {
		desc = fmt.Sprintf("%s (%.0f mph, %.0f deg)", desc, o.ExitVelocity, o.LaunchAngle)
	}
	if runs > 0 {
		if runs == 1 {
			desc += ", 1 run scores"
		} else {
			desc = fmt.Sprintf("%s, %d runs score", desc, runs)
		}
	}
	return desc
}
