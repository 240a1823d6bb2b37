package analysis

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var commentaryTemplates = []string{
	"That play changes everything: %s. Momentum now sits at %.0f-%.0f.",
	"Huge moment in inning %d: %s.",
	"The crowd is on its feet after %s, with the score %d-%d.",
	"You can feel the shift after %s. Watch the %s half closely now.",
	"Statement play: %s. The %d-%d score tells only half the story.",
}

// CannedGenerator assembles commentary from fixed templates. It is the
// shipped default behind the Generator interface; a model-backed generator
// plugs in the same way.
type CannedGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCannedGenerator() *CannedGenerator {
	return &CannedGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (g *CannedGenerator) Generate(ctx context.Context, gc Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	tmpl := commentaryTemplates[g.rnd.Intn(len(commentaryTemplates))]
	g.mu.Unlock()

	switch tmpl {
	case commentaryTemplates[0]:
		return fmt.Sprintf(tmpl, gc.LastPlay, gc.HomeMomentum, gc.AwayMomentum), nil
	case commentaryTemplates[1]:
		return fmt.Sprintf(tmpl, gc.Inning, gc.LastPlay), nil
	case commentaryTemplates[2]:
		return fmt.Sprintf(tmpl, gc.LastPlay, gc.HomeScore, gc.AwayScore), nil
	case commentaryTemplates[3]:
		return fmt.Sprintf(tmpl, gc.LastPlay, gc.Half), nil
	default:
		return fmt.Sprintf(tmpl, gc.LastPlay, gc.HomeScore, gc.AwayScore), nil
	}
}
