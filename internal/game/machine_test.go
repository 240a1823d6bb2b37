package game

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestMachine(seed int64) *Machine {
	return NewMachine(rand.New(rand.NewSource(seed)))
}

func TestThreeStrikeoutsFlipHalf(t *testing.T) {
	m := newTestMachine(1)
	s := NewState("g1")
	s.Bases.First = "away"

	for i := 0; i < 3; i++ {
		if err := m.Apply(s, Outcome{Kind: KindStrikeout, Team: TeamAway, Impact: 0.2}); err != nil {
			t.Fatalf("apply strikeout %d: %v", i, err)
		}
	}
	if s.Half != HalfBottom {
		t.Fatalf("Half = %s, want bottom", s.Half)
	}
	if s.Inning != 1 {
		t.Fatalf("Inning = %d, want 1", s.Inning)
	}
	if s.Outs != 0 || s.Balls != 0 || s.Strikes != 0 {
		t.Fatalf("count not reset: outs=%d balls=%d strikes=%d", s.Outs, s.Balls, s.Strikes)
	}
	if s.Bases != (Bases{}) {
		t.Fatalf("bases not cleared: %+v", s.Bases)
	}
}

func TestBottomToTopFlipIncrementsInning(t *testing.T) {
	m := newTestMachine(2)
	s := NewState("g1")

	for i := 0; i < 6; i++ {
		if err := m.Apply(s, Outcome{Kind: KindGroundout, Team: s.Batting(), Impact: 0.15}); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if s.Inning != 2 || s.Half != HalfTop {
		t.Fatalf("got inning=%d half=%s, want inning=2 half=top", s.Inning, s.Half)
	}
}

func TestHomerunBottomHalf(t *testing.T) {
	m := newTestMachine(3)
	s := NewState("g1")
	s.Half = HalfBottom

	if err := m.Apply(s, Outcome{Kind: KindHomerun, Team: TeamHome, Impact: 0.9, Batted: true, ExitVelocity: 108, LaunchAngle: 29}); err != nil {
		t.Fatalf("apply homerun: %v", err)
	}
	if s.HomeScore < 1 || s.HomeScore > 4 {
		t.Fatalf("HomeScore = %d, want in [1,4]", s.HomeScore)
	}
	if s.AwayScore != 0 {
		t.Fatalf("AwayScore = %d, want 0", s.AwayScore)
	}
	if s.HomeMomentum <= initialMomentum || s.HomeMomentum > momentumMax {
		t.Fatalf("HomeMomentum = %v, want in (50,90]", s.HomeMomentum)
	}
	if !s.CriticalPlay {
		t.Fatal("homerun should be flagged critical")
	}
	if s.Bases != (Bases{}) {
		t.Fatalf("bases not cleared after homerun: %+v", s.Bases)
	}
}

func TestMomentumComplement(t *testing.T) {
	m := newTestMachine(4)
	s := NewState("g1")

	if err := m.Apply(s, Outcome{Kind: KindStrikeout, Team: TeamAway, Impact: 0.2}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.AwayMomentum != 54 {
		t.Fatalf("AwayMomentum = %v, want 54", s.AwayMomentum)
	}
	if s.HomeMomentum != 46 {
		t.Fatalf("HomeMomentum = %v, want 46", s.HomeMomentum)
	}
}

func TestMomentumClamped(t *testing.T) {
	m := newTestMachine(5)
	s := NewState("g1")
	s.Half = HalfBottom
	s.HomeMomentum = 88
	s.AwayMomentum = 12

	if err := m.Apply(s, Outcome{Kind: KindHomerun, Team: TeamHome, Impact: 0.9}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.HomeMomentum != momentumMax {
		t.Fatalf("HomeMomentum = %v, want %v", s.HomeMomentum, momentumMax)
	}
	if s.AwayMomentum != momentumMin {
		t.Fatalf("AwayMomentum = %v, want %v", s.AwayMomentum, momentumMin)
	}
}

func TestWalkForcesRunners(t *testing.T) {
	m := newTestMachine(6)
	s := NewState("g1")
	s.Bases = Bases{First: "a", Second: "b"}

	if err := m.Apply(s, Outcome{Kind: KindWalk, Team: TeamAway, Impact: 0.25}); err != nil {
		t.Fatalf("apply walk: %v", err)
	}
	want := Bases{First: "away", Second: "a", Third: "b"}
	if s.Bases != want {
		t.Fatalf("Bases = %+v, want %+v", s.Bases, want)
	}
}

func TestUnknownKindRejected(t *testing.T) {
	m := newTestMachine(7)
	s := NewState("g1")

	err := m.Apply(s, Outcome{Kind: "bunt", Team: TeamAway})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
	if s.HomeMomentum != initialMomentum || s.AwayMomentum != initialMomentum {
		t.Fatalf("state mutated by rejected outcome: %+v", s)
	}
}

func TestCompleteFlag(t *testing.T) {
	m := newTestMachine(8)
	s := NewState("g1")
	s.Inning = 9
	s.Half = HalfBottom
	s.HomeScore = 3
	s.AwayScore = 2

	if err := m.Apply(s, Outcome{Kind: KindFlyout, Team: TeamHome, Impact: 0.15}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !s.Complete {
		t.Fatal("expected game complete at inning 9, bottom, scores differing")
	}
}

func TestTiedGameContinues(t *testing.T) {
	m := newTestMachine(9)
	s := NewState("g1")
	s.Inning = 9
	s.Half = HalfBottom

	if err := m.Apply(s, Outcome{Kind: KindFlyout, Team: TeamHome, Impact: 0.15}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if s.Complete {
		t.Fatal("tied game must continue into extra innings")
	}
}

func TestInvariantsOverRandomSequence(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	gen, err := NewGenerator(rnd)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	m := NewMachine(rnd)
	s := NewState("g1")

	prevHome, prevAway := 0, 0
	for i := 0; i < 5000; i++ {
		if err := m.Apply(s, gen.Next(s.Batting())); err != nil {
			t.Fatalf("apply %d: %v", i, err)
		}
		if s.Outs < 0 || s.Outs >= 3 {
			t.Fatalf("play %d: outs = %d", i, s.Outs)
		}
		if s.Inning < 1 {
			t.Fatalf("play %d: inning = %d", i, s.Inning)
		}
		if s.Balls < 0 || s.Balls >= 4 || s.Strikes < 0 || s.Strikes >= 3 {
			t.Fatalf("play %d: balls=%d strikes=%d", i, s.Balls, s.Strikes)
		}
		if s.HomeMomentum < momentumMin || s.HomeMomentum > momentumMax {
			t.Fatalf("play %d: home momentum = %v", i, s.HomeMomentum)
		}
		if s.AwayMomentum < momentumMin || s.AwayMomentum > momentumMax {
			t.Fatalf("play %d: away momentum = %v", i, s.AwayMomentum)
		}
		if s.HomeScore < prevHome || s.AwayScore < prevAway {
			t.Fatalf("play %d: score decreased", i)
		}
		prevHome, prevAway = s.HomeScore, s.AwayScore
		if s.LastPlay == "" {
			t.Fatalf("play %d: empty last play", i)
		}
	}
}
