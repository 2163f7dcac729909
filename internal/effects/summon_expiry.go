package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/spatial"
)

// SummonExpirer is the narrow slice of npcengine.Engine the scheduler needs.
type SummonExpirer interface {
	ExpireSummons(ctx context.Context, mapID int16, now time.Time) error
}

// SummonExpiryEffect removes summoned pets whose duration has elapsed,
// grounded on original_source/src/effects/effect_summon_expiry.py.
type SummonExpiryEffect struct {
	index   *spatial.Index
	summons SummonExpirer
}

func NewSummonExpiryEffect(index *spatial.Index, summons SummonExpirer) *SummonExpiryEffect {
	return &SummonExpiryEffect{index: index, summons: summons}
}

func (e *SummonExpiryEffect) Name() string            { return "SummonExpiry" }
func (e *SummonExpiryEffect) Interval() time.Duration { return 5 * time.Second }

func (e *SummonExpiryEffect) ApplyGlobal(ctx context.Context) error {
	now := time.Now()
	var firstErr error
	for _, mapID := range e.index.MapIDs() {
		if err := e.summons.ExpireSummons(ctx, mapID, now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
