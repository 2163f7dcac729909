package spatial

import (
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/stretchr/testify/require"
)

func TestAddAndRemovePlayer(t *testing.T) {
	idx := NewIndex()
	idx.AddPlayer(1, 100, nil, "Bob", 5, 5)

	require.True(t, idx.IsTileOccupied(1, 5, 5))
	require.Contains(t, idx.PlayersInMap(1, 0), int64(100))
	uid, ok := idx.PlayerByUsername("bob")
	require.True(t, ok)
	require.Equal(t, int64(100), uid)

	idx.RemovePlayerFromAllMaps(100)
	require.False(t, idx.IsTileOccupied(1, 5, 5))
	require.Empty(t, idx.PlayersInMap(1, 0))
	_, ok = idx.PlayerByUsername("bob")
	require.False(t, ok)
}

func TestMovePlayerSameMap(t *testing.T) {
	idx := NewIndex()
	idx.AddPlayer(1, 100, nil, "Bob", 5, 5)
	idx.MovePlayer(1, 1, 5, 5, 6, 5, 100)

	require.False(t, idx.IsTileOccupied(1, 5, 5))
	require.True(t, idx.IsTileOccupied(1, 6, 5))
}

func TestMovePlayerAcrossMaps(t *testing.T) {
	idx := NewIndex()
	idx.AddPlayer(1, 100, nil, "Bob", 5, 5)
	idx.MovePlayer(1, 2, 5, 5, 0, 0, 100)

	require.False(t, idx.IsTileOccupied(1, 5, 5))
	require.True(t, idx.IsTileOccupied(2, 0, 0))
	mapID, ok := idx.MapOf(100)
	require.True(t, ok)
	require.Equal(t, int16(2), mapID)
}

func TestAddRemoveNPC(t *testing.T) {
	idx := NewIndex()
	npc := &model.NPC{InstanceID: 7, Pos: model.Position{Map: 1, X: 3, Y: 3}}
	idx.AddNPC(1, npc)

	require.True(t, idx.IsTileOccupied(1, 3, 3))
	require.Len(t, idx.NPCsInMap(1), 1)

	idx.RemoveNPC(1, 7)
	require.False(t, idx.IsTileOccupied(1, 3, 3))
	require.Empty(t, idx.NPCsInMap(1))
}

func TestAllConnectedUserIDs(t *testing.T) {
	idx := NewIndex()
	idx.AddPlayer(1, 1, nil, "A", 0, 0)
	idx.AddPlayer(2, 2, nil, "B", 0, 0)

	ids := idx.AllConnectedUserIDs()
	require.Len(t, ids, 2)
}
