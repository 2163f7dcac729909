package effects

import (
	"context"
	"time"
)

// Respawner is the narrow slice of npcengine.Engine the scheduler needs.
type Respawner interface {
	ProcessRespawns(ctx context.Context, now time.Time) error
}

// RespawnEffect spawns whatever NPC respawn timers have elapsed, grounded on
// npcengine.Engine.scheduleRespawn/ProcessRespawns and spec.md S2's "a
// respawn task is scheduled for uniform(G.respawn_min, G.respawn_max)
// seconds" rule. Without this effect registered, a killed NPC's respawn
// entry is queued forever and never drained.
type RespawnEffect struct {
	respawns Respawner
}

func NewRespawnEffect(respawns Respawner) *RespawnEffect {
	return &RespawnEffect{respawns: respawns}
}

func (e *RespawnEffect) Name() string            { return "Respawn" }
func (e *RespawnEffect) Interval() time.Duration { return 5 * time.Second }

func (e *RespawnEffect) ApplyGlobal(ctx context.Context) error {
	return e.respawns.ProcessRespawns(ctx, time.Now())
}
