package game

import (
	"fmt"
	"math/rand"
)

// Generator samples play outcomes from the weighted kind catalog. It is not
// safe for concurrent use; the bridge loop is its only caller.
type Generator struct {
	rnd   *rand.Rand
	kinds []Kind
	cum   []float64
}

// NewGenerator validates the outcome catalog and prepares the cumulative
// distribution. A malformed catalog is a startup configuration error.
func NewGenerator(rnd *rand.Rand) (*Generator, error) {
	kinds := Kinds()
	if len(kinds) != len(kindSpecs) {
		return nil, fmt.Errorf("outcome catalog: %d kinds listed, %d specs", len(kinds), len(kindSpecs))
	}
	total := 0.0
	for _, k := range kinds {
		spec, ok := kindSpecs[k]
		if !ok {
			return nil, fmt.Errorf("outcome catalog: missing spec for %q", k)
		}
		if spec.weight <= 0 {
			return nil, fmt.Errorf("outcome catalog: %q has non-positive weight %v", k, spec.weight)
		}
		if spec.impact < 0 || spec.impact > 1 {
			return nil, fmt.Errorf("outcome catalog: %q impact %v outside [0,1]", k, spec.impact)
		}
		if spec.batted && spec.velo.hi < spec.velo.lo {
			return nil, fmt.Errorf("outcome catalog: %q has inverted velocity range", k)
		}
		if spec.batted && spec.angle.hi < spec.angle.lo {
			return nil, fmt.Errorf("outcome catalog: %q has inverted angle range", k)
		}
		total += spec.weight
	}

	cum := make([]float64, len(kinds))
	acc := 0.0
	for i, k := range kinds {
		acc += kindSpecs[k].weight / total
		cum[i] = acc
	}
	cum[len(cum)-1] = 1.0

	return &Generator{rnd: rnd, kinds: kinds, cum: cum}, nil
}

// Next draws one outcome for the team at bat.
func (g *Generator) Next(team Team) Outcome {
	r := g.rnd.Float64()
	kind := g.kinds[len(g.kinds)-1]
	for i, c := range g.cum {
		if r < c {
			kind = g.kinds[i]
			break
		}
	}

	spec := kindSpecs[kind]
	out := Outcome{Kind: kind, Team: team, Impact: spec.impact}
	if spec.batted {
		out.Batted = true
		out.ExitVelocity = g.inRange(spec.velo)
		out.LaunchAngle = g.inRange(spec.angle)
	}
	return out
}

func (g *Generator) inRange(r valueRange) float64 {
	return r.lo + g.rnd.Float64()*(r.hi-r.lo)
}
