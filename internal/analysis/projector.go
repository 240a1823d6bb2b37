package analysis

const fullSeasonGames = 162

// RateProjector is the default projector: straight rate stats plus a
// full-season home-run pace. Stands in for the external prediction-curve
// calculator; the arithmetic is deliberately simple.
type RateProjector struct{}

func (RateProjector) Project(stats PlayerStats) Projection {
	p := Projection{Name: stats.Name, ProjectionQuality: "full"}

	if stats.AtBats > 0 {
		p.BattingAverage = float64(stats.Hits) / float64(stats.AtBats)
		p.StrikeoutRate = float64(stats.Strikeouts) / float64(stats.AtBats)
	}
	if pa := stats.AtBats + stats.Walks; pa > 0 {
		p.OnBasePct = float64(stats.Hits+stats.Walks) / float64(pa)
	}
	if stats.Games > 0 {
		p.HomeRunPace162 = float64(stats.HomeRuns) / float64(stats.Games) * fullSeasonGames
	}
	if stats.AtBats < 50 {
		p.ProjectionQuality = "small_sample"
	}
	return p
}
