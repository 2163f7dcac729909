package effects

import (
	"context"
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/stretchr/testify/require"
)

func TestNPCAITicksEveryLiveMap(t *testing.T) {
	index := spatial.NewIndex()
	index.AddNPC(1, &model.NPC{InstanceID: 1, Pos: model.Position{Map: 1}})
	index.AddNPC(2, &model.NPC{InstanceID: 2, Pos: model.Position{Map: 2}})
	ai := &fakeAITicker{}
	e := NewNPCAIEffect(index, ai)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.ElementsMatch(t, []int16{1, 2}, ai.ticked)
}

func TestNPCAINoopWhenNoMaps(t *testing.T) {
	index := spatial.NewIndex()
	ai := &fakeAITicker{}
	e := NewNPCAIEffect(index, ai)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Empty(t, ai.ticked)
}
