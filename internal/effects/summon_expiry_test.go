package effects

import (
	"context"
	"testing"

	"github.com/pyao-go/server/internal/model"
	"github.com/pyao-go/server/internal/spatial"
	"github.com/stretchr/testify/require"
)

func TestSummonExpiryVisitsEveryLiveMap(t *testing.T) {
	index := spatial.NewIndex()
	index.AddNPC(1, &model.NPC{InstanceID: 1, Pos: model.Position{Map: 1}})
	index.AddNPC(3, &model.NPC{InstanceID: 2, Pos: model.Position{Map: 3}})
	summons := &fakeSummonExpirer{}
	e := NewSummonExpiryEffect(index, summons)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.ElementsMatch(t, []int16{1, 3}, summons.expired)
}

func TestSummonExpiryNoopWhenNoMaps(t *testing.T) {
	index := spatial.NewIndex()
	summons := &fakeSummonExpirer{}
	e := NewSummonExpiryEffect(index, summons)

	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Empty(t, summons.expired)
}
