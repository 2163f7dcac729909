package effects

import (
	"context"
	"testing"
	"time"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/stretchr/testify/require"
)

func TestNPCPoisonDamagesPoisonedNPC(t *testing.T) {
	index := spatial.NewIndex()
	npc := &model.NPC{InstanceID: 1, HP: 20, MaxHP: 20, PoisonedUntil: time.Now().Add(time.Minute), PoisonedByUserID: 7, Pos: model.Position{Map: 1, X: 1, Y: 1}}
	index.AddNPC(1, npc)
	npcs := &fakeNPCRepo{}
	deaths := &fakeDeathHandler{}
	e := NewNPCPoisonEffect(index, npcs, deaths)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, int32(15), npc.HP)
	require.False(t, deaths.called)
}

func TestNPCPoisonKillsAndRoutesDeath(t *testing.T) {
	index := spatial.NewIndex()
	npc := &model.NPC{InstanceID: 1, HP: 3, MaxHP: 20, PoisonedUntil: time.Now().Add(time.Minute), PoisonedByUserID: 7, Pos: model.Position{Map: 1, X: 1, Y: 1}}
	index.AddNPC(1, npc)
	deaths := &fakeDeathHandler{}
	e := NewNPCPoisonEffect(index, &fakeNPCRepo{}, deaths)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, int32(0), npc.HP)
	require.True(t, deaths.called)
	require.Equal(t, int64(7), deaths.killerUserID)
	require.True(t, npc.PoisonedUntil.IsZero())
}

func TestNPCPoisonClearsOnExpiry(t *testing.T) {
	index := spatial.NewIndex()
	npc := &model.NPC{InstanceID: 1, HP: 20, MaxHP: 20, PoisonedUntil: time.Now().Add(-time.Second), Pos: model.Position{Map: 1, X: 1, Y: 1}}
	index.AddNPC(1, npc)
	e := NewNPCPoisonEffect(index, &fakeNPCRepo{}, &fakeDeathHandler{})

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.True(t, npc.PoisonedUntil.IsZero())
	require.Equal(t, int32(20), npc.HP)
}

func TestNPCPoisonSkipsDeadNPC(t *testing.T) {
	index := spatial.NewIndex()
	npc := &model.NPC{InstanceID: 1, HP: 0, MaxHP: 20, PoisonedUntil: time.Now().Add(time.Minute), Pos: model.Position{Map: 1, X: 1, Y: 1}}
	index.AddNPC(1, npc)
	deaths := &fakeDeathHandler{}
	e := NewNPCPoisonEffect(index, &fakeNPCRepo{}, deaths)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.False(t, deaths.called)
}
