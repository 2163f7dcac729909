package effects

import (
	"context"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
)

// maxPetFollowDistance mirrors MAX_PET_FOLLOW_DISTANCE from
// original_source/src/constants/gameplay.py (spec.md §4.11).
const maxPetFollowDistance = 8

// PetFollowEffect steps a summoned pet toward its owner once it strays
// beyond maxPetFollowDistance, grounded on
// original_source/src/effects/effect_pet_follow.py.
type PetFollowEffect struct {
	index *spatial.Index
	mover Mover
}

func NewPetFollowEffect(index *spatial.Index, mover Mover) *PetFollowEffect {
	return &PetFollowEffect{index: index, mover: mover}
}

func (e *PetFollowEffect) Name() string            { return "PetFollow" }
func (e *PetFollowEffect) Interval() time.Duration { return 2 * time.Second }

func (e *PetFollowEffect) ApplyGlobal(ctx context.Context) error {
	var firstErr error
	for _, mapID := range e.index.MapIDs() {
		for _, pet := range e.index.NPCsInMap(mapID) {
			if !pet.IsSummon() {
				continue
			}
			if err := e.followOne(ctx, pet); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *PetFollowEffect) followOne(ctx context.Context, pet *model.NPC) error {
	ownerPos, ok := e.index.PlayerPosition(pet.Pos.Map, pet.SummonedByUserID)
	if !ok {
		return nil
	}
	if pet.Pos.ManhattanTo(ownerPos) <= maxPetFollowDistance {
		return nil
	}
	if !pet.CanMove(time.Now()) {
		return nil
	}

	heading := model.HeadingTo(int(pet.Pos.X), int(pet.Pos.Y), int(ownerPos.X), int(ownerPos.Y))
	dx, dy := heading.Step()
	newX := pet.Pos.X + int16(dx)
	newY := pet.Pos.Y + int16(dy)

	_, err := e.mover.MoveNPC(ctx, pet, newX, newY, heading)
	return err
}
