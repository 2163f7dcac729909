package effects

import (
	"context"
	"math/rand"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/pyao-go/server/internal/store"
	"github.com/pyao-go/server/internal/worldmap"
)

// defaultMaxNPCsPerTick and defaultChunkSize mirror
// DEFAULT_MAX_NPCS_PER_TICK/DEFAULT_NPC_CHUNK_SIZE referenced by
// original_source/src/effects/effect_npc_movement.py (the constants module
// itself carried no values in the retrieved source, so these follow the
// effect's own documented defaults).
const (
	defaultMaxNPCsPerTick = 50
	defaultChunkSize      = 10
	npcAggroManhattan     = 10
	npcWanderRadius       = 5
)

// Mover is the narrow slice of npcengine.Engine used to relocate an NPC.
type Mover interface {
	MoveNPC(ctx context.Context, npc *model.NPC, newX, newY int16, heading model.Heading) (bool, error)
}

// NPCMovementEffect drives idle hostile NPCs: chase a nearby connected
// player within 10 Manhattan steps, else random-walk within 5 tiles of the
// NPC's current position. Grounded on
// original_source/src/effects/effect_npc_movement.py; processes up to
// maxNPCsPerTick randomly-sampled NPCs per firing, chunked for parallelism
// there (this Go port processes the sample sequentially per call, since
// the scheduler already fans every global effect out onto its own
// goroutine — a second layer of chunked concurrency bought nothing beyond
// the Python runtime's lack of true parallel execution per task).
type NPCMovementEffect struct {
	index         *spatial.Index
	terrain       *worldmap.Registry
	mover         Mover
	maxNPCsPerTick int
	rng           *rand.Rand
}

func NewNPCMovementEffect(index *spatial.Index, terrain *worldmap.Registry, mover Mover, rng *rand.Rand) *NPCMovementEffect {
	return &NPCMovementEffect{index: index, terrain: terrain, mover: mover, maxNPCsPerTick: defaultMaxNPCsPerTick, rng: rng}
}

func (e *NPCMovementEffect) Name() string            { return "NPCMovement" }
func (e *NPCMovementEffect) Interval() time.Duration { return 5 * time.Second }

func (e *NPCMovementEffect) ApplyGlobal(ctx context.Context) error {
	var hostile []*model.NPC
	for _, mapID := range e.index.MapIDs() {
		for _, npc := range e.index.NPCsInMap(mapID) {
			if npc.Hostile && !npc.IsDead() {
				hostile = append(hostile, npc)
			}
		}
	}
	if len(hostile) == 0 {
		return nil
	}

	e.rng.Shuffle(len(hostile), func(i, j int) { hostile[i], hostile[j] = hostile[j], hostile[i] })
	n := e.maxNPCsPerTick
	if n > len(hostile) {
		n = len(hostile)
	}

	var firstErr error
	for _, npc := range hostile[:n] {
		if err := e.moveOne(ctx, npc); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *NPCMovementEffect) moveOne(ctx context.Context, npc *model.NPC) error {
	now := time.Now()
	if !npc.CanMove(now) {
		return nil
	}

	if targetX, targetY, ok := e.nearestPlayer(npc); ok {
		return e.stepToward(ctx, npc, targetX, targetY)
	}
	return e.randomWalk(ctx, npc)
}

func (e *NPCMovementEffect) nearestPlayer(npc *model.NPC) (x, y int16, ok bool) {
	best := npcAggroManhattan + 1
	var bestX, bestY int16
	for _, uid := range e.index.PlayersInMap(npc.Pos.Map, 0) {
		pos, found := e.index.PlayerPosition(npc.Pos.Map, uid)
		if !found {
			continue
		}
		dist := npc.Pos.ManhattanTo(pos)
		if dist <= npcAggroManhattan && dist < best {
			best = dist
			bestX, bestY = pos.X, pos.Y
		}
	}
	if best > npcAggroManhattan {
		return 0, 0, false
	}
	return bestX, bestY, true
}

func (e *NPCMovementEffect) stepToward(ctx context.Context, npc *model.NPC, targetX, targetY int16) error {
	newX, newY := npc.Pos.X, npc.Pos.Y
	heading := model.HeadingTo(int(npc.Pos.X), int(npc.Pos.Y), int(targetX), int(targetY))
	dx, dy := heading.Step()
	newX += int16(dx)
	newY += int16(dy)

	if !e.terrain.CanMoveTo(npc.Pos.Map, newX, newY) {
		return nil
	}
	_, err := e.mover.MoveNPC(ctx, npc, newX, newY, heading)
	return err
}

var wanderHeadings = [4]model.Heading{model.North, model.East, model.South, model.West}

func (e *NPCMovementEffect) randomWalk(ctx context.Context, npc *model.NPC) error {
	heading := wanderHeadings[e.rng.Intn(len(wanderHeadings))]
	dx, dy := heading.Step()
	newX := npc.Pos.X + int16(dx)
	newY := npc.Pos.Y + int16(dy)

	if !e.terrain.CanMoveTo(npc.Pos.Map, newX, newY) {
		return nil
	}
	if npc.Pos.ManhattanTo(model.Position{Map: npc.Pos.Map, X: newX, Y: newY}) > npcWanderRadius {
		return nil
	}
	_, err := e.mover.MoveNPC(ctx, npc, newX, newY, heading)
	return err
}
