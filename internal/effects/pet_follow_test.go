package effects

import (
	"context"
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/stretchr/testify/require"
)

func TestPetFollowStepsTowardDistantOwner(t *testing.T) {
	index := spatial.NewIndex()
	index.AddPlayer(1, 42, &recordingSender{}, "owner", 0, 0)
	pet := &model.NPC{InstanceID: 1, SummonedByUserID: 42, Pos: model.Position{Map: 1, X: 10, Y: 0}}
	index.AddNPC(1, pet)
	mover := &fakeMover{}
	e := NewPetFollowEffect(index, mover)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 1, mover.calls)
	require.Equal(t, 9, pet.Pos.ManhattanTo(model.Position{Map: 1, X: 0, Y: 0}))
}

func TestPetFollowNoopWithinRange(t *testing.T) {
	index := spatial.NewIndex()
	index.AddPlayer(1, 42, &recordingSender{}, "owner", 0, 0)
	pet := &model.NPC{InstanceID: 1, SummonedByUserID: 42, Pos: model.Position{Map: 1, X: 3, Y: 0}}
	index.AddNPC(1, pet)
	mover := &fakeMover{}
	e := NewPetFollowEffect(index, mover)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 0, mover.calls)
}

func TestPetFollowIgnoresNonSummonedNPCs(t *testing.T) {
	index := spatial.NewIndex()
	index.AddNPC(1, &model.NPC{InstanceID: 1, Pos: model.Position{Map: 1, X: 99, Y: 99}})
	mover := &fakeMover{}
	e := NewPetFollowEffect(index, mover)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 0, mover.calls)
}

func TestPetFollowNoopWhenOwnerDisconnected(t *testing.T) {
	index := spatial.NewIndex()
	pet := &model.NPC{InstanceID: 1, SummonedByUserID: 42, Pos: model.Position{Map: 1, X: 10, Y: 0}}
	index.AddNPC(1, pet)
	mover := &fakeMover{}
	e := NewPetFollowEffect(index, mover)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 0, mover.calls)
}
