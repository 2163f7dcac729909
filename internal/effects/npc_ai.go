package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/spatial"
)

// AITicker is the narrow slice of npcai.AI the scheduler needs.
type AITicker interface {
	Tick(ctx context.Context, mapID int16) error
}

// NPCAIEffect invokes targeting/chase/attack for every hostile NPC on
// every live map once per firing (spec.md §4.9, §4.11).
type NPCAIEffect struct {
	index *spatial.Index
	ai    AITicker
}

func NewNPCAIEffect(index *spatial.Index, ai AITicker) *NPCAIEffect {
	return &NPCAIEffect{index: index, ai: ai}
}

func (e *NPCAIEffect) Name() string            { return "NPCAI" }
func (e *NPCAIEffect) Interval() time.Duration { return 3500 * time.Millisecond }

func (e *NPCAIEffect) ApplyGlobal(ctx context.Context) error {
	var firstErr error
	for _, mapID := range e.index.MapIDs() {
		if err := e.ai.Tick(ctx, mapID); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
