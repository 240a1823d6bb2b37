// Package analysis holds the bridge's external collaborators: the commentary
// generator consumed asynchronously on critical plays, and the pure stat
// projector exposed through the MCP surface. Both are interfaces so a
// model-backed service can replace the shipped defaults.
package analysis

import "context"

// Context is the game situation handed to a commentary generator.
type Context struct {
	Inning       int     `json:"inning"`
	Half         string  `json:"half"`
	HomeScore    int     `json:"home_score"`
	AwayScore    int     `json:"away_score"`
	LastPlay     string  `json:"last_play"`
	HomeMomentum float64 `json:"home_momentum"`
	AwayMomentum float64 `json:"away_momentum"`
}

// Generator produces a short piece of commentary for the given situation.
// It may fail; failures must never affect game state.
type Generator interface {
	Generate(ctx context.Context, gc Context) (string, error)
}

// PlayerStats is the input to a projection.
type PlayerStats struct {
	Name       string `json:"name"`
	AtBats     int    `json:"at_bats"`
	Hits       int    `json:"hits"`
	HomeRuns   int    `json:"home_runs"`
	Walks      int    `json:"walks"`
	Strikeouts int    `json:"strikeouts"`
	Games      int    `json:"games"`
}

type Projection struct {
	Name              string  `json:"name"`
	BattingAverage    float64 `json:"batting_average"`
	OnBasePct         float64 `json:"on_base_pct"`
	HomeRunPace162    float64 `json:"home_run_pace_162"`
	StrikeoutRate     float64 `json:"strikeout_rate"`
	ProjectionQuality string  `json:"projection_quality"`
}

// Projector turns season-to-date stats into a projection. Pure and
// synchronous; no concurrency concerns.
type Projector interface {
	Project(stats PlayerStats) Projection
}

// ProjectorFunc adapts a plain function to the Projector interface.
type ProjectorFunc func(stats PlayerStats) Projection

func (f ProjectorFunc) Project(stats PlayerStats) Projection {
	return f(stats)
}
