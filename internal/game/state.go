package game

type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

const (
	momentumMin     = 10.0
	momentumMax     = 90.0
	initialMomentum = 50.0

	finalInning = 9
)

// Bases holds the occupant of each base slot. Empty string means unoccupied.
type Bases struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// State is the authoritative record of the one in-progress game. It is owned
// by the bridge loop and mutated only through Machine.Apply.
type State struct {
	GameID       string
	Inning       int
	Half         Half
	HomeScore    int
	AwayScore    int
	Outs         int
	Balls        int
	Strikes      int
	Bases        Bases
	HomeMomentum float64
	AwayMomentum float64
	LastPlay     string
	CriticalPlay bool
	Complete     bool
}

func NewState(gameID string) *State {
	return &State{
		GameID:       gameID,
		Inning:       1,
		Half:         HalfTop,
		HomeMomentum: initialMomentum,
		AwayMomentum: initialMomentum,
	}
}

// Batting returns the team at bat for the current half.
func (s *State) Batting() Team {
	if s.Half == HalfBottom {
		return TeamHome
	}
	return TeamAway
}

func (s *State) addRuns(t Team, runs int) {
	if t == TeamHome {
		s.HomeScore += runs
	} else {
		s.AwayScore += runs
	}
}

// shiftMomentum moves the acting team's momentum by shift and sets the
// opponent to the clamped complement, so the pair stays a function of the
// acting side's new value.
func (s *State) shiftMomentum(t Team, shift float64) {
	if t == TeamHome {
		s.HomeMomentum = clampMomentum(s.HomeMomentum + shift)
		s.AwayMomentum = clampMomentum(100 - s.HomeMomentum)
	} else {
		s.AwayMomentum = clampMomentum(s.AwayMomentum + shift)
		s.HomeMomentum = clampMomentum(100 - s.AwayMomentum)
	}
}

func clampMomentum(v float64) float64 {
	if v < momentumMin {
		return momentumMin
	}
	if v > momentumMax {
		return momentumMax
	}
	return v
}

// flipHalf ends the current half-inning: count and bases reset, the half
// toggles, and the inning advances on a bottom-to-top flip.
func (s *State) flipHalf() {
	s.Outs = 0
	s.Balls = 0
	s.Strikes = 0
	s.Bases = Bases{}
	if s.Half == HalfTop {
		s.Half = HalfBottom
	} else {
		s.Half = HalfTop
		s.Inning++
	}
}

func (s *State) refreshComplete() {
	if s.Inning >= finalInning && s.Half == HalfBottom && s.HomeScore != s.AwayScore {
		s.Complete = true
	}
}

type Snapshot struct {
	GameID       string  `json:"game_id"`
	Inning       int     `json:"inning"`
	Half         string  `json:"half"`
	HomeScore    int     `json:"home_score"`
	AwayScore    int     `json:"away_score"`
	Outs         int     `json:"outs"`
	Balls        int     `json:"balls"`
	Strikes      int     `json:"strikes"`
	Bases        Bases   `json:"bases"`
	HomeMomentum float64 `json:"home_momentum"`
	AwayMomentum float64 `json:"away_momentum"`
	LastPlay     string  `json:"last_play,omitempty"`
	CriticalPlay bool    `json:"critical_play"`
	GameComplete bool    `json:"game_complete"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		GameID:       s.GameID,
		Inning:       s.Inning,
		Half:         string(s.Half),
		HomeScore:    s.HomeScore,
		AwayScore:    s.AwayScore,
		Outs:         s.Outs,
		Balls:        s.Balls,
		Strikes:      s.Strikes,
		Bases:        s.Bases,
		HomeMomentum: s.HomeMomentum,
		AwayMomentum: s.AwayMomentum,
		LastPlay:     s.LastPlay,
		CriticalPlay: s.CriticalPlay,
		GameComplete: s.Complete,
	}
}
