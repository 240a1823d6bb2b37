package game

type Kind string

const (
	KindSingle     Kind = "single"
	KindDouble     Kind = "double"
	KindTriple     Kind = "triple"
	KindHomerun    Kind = "homerun"
	KindStrikeout  Kind = "strikeout"
	KindGroundout  Kind = "groundout"
	KindFlyout     Kind = "flyout"
	KindWalk       Kind = "walk"
	KindHitByPitch Kind = "hit_by_pitch"
	KindError      Kind = "error"
)

// criticalThreshold marks the impact above which a play is flagged critical.
// Impact is fixed per kind, so criticality is a pure function of the kind.
const criticalThreshold = 0.7

// Outcome is one generated play, consumed within a single Apply step.
type Outcome struct {
	Kind   Kind
	Team   Team
	Impact float64

	// Batted-ball physics, populated only when Batted is true.
	Batted       bool
	ExitVelocity float64 // mph
	LaunchAngle  float64 // degrees
}

func (o Outcome) Critical() bool {
	return o.Impact > criticalThreshold
}

type valueRange struct {
	lo, hi float64
}

type kindSpec struct {
	weight float64
	impact float64
	batted bool
	velo   valueRange
	angle  valueRange
	phrase string
}

// kindSpecs is the fixed outcome catalog. Weights are normalized before
// sampling; impact bands feed momentum and the critical flag.
var kindSpecs = map[Kind]kindSpec{
	KindSingle:     {weight: 0.20, impact: 0.30, batted: true, velo: valueRange{85, 105}, angle: valueRange{0, 15}, phrase: "lines a single"},
	KindDouble:     {weight: 0.08, impact: 0.50, batted: true, velo: valueRange{95, 110}, angle: valueRange{10, 25}, phrase: "rips a double into the gap"},
	KindTriple:     {weight: 0.02, impact: 0.75, batted: true, velo: valueRange{95, 112}, angle: valueRange{15, 28}, phrase: "legs out a triple"},
	KindHomerun:    {weight: 0.04, impact: 0.90, batted: true, velo: valueRange{100, 115}, angle: valueRange{25, 35}, phrase: "crushes a home run"},
	KindStrikeout:  {weight: 0.22, impact: 0.20, phrase: "goes down swinging"},
	KindGroundout:  {weight: 0.15, impact: 0.15, batted: true, velo: valueRange{70, 100}, angle: valueRange{-20, 5}, phrase: "grounds out"},
	KindFlyout:     {weight: 0.13, impact: 0.15, batted: true, velo: valueRange{80, 100}, angle: valueRange{25, 50}, phrase: "flies out"},
	KindWalk:       {weight: 0.08, impact: 0.25, phrase: "draws a walk"},
	KindHitByPitch: {weight: 0.02, impact: 0.35, phrase: "is hit by the pitch"},
	KindError:      {weight: 0.06, impact: 0.72, phrase: "reaches on an error"},
}

// Kinds returns the catalog keys in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSingle, KindDouble, KindTriple, KindHomerun, KindStrikeout,
		KindGroundout, KindFlyout, KindWalk, KindHitByPitch, KindError,
	}
}
