package effects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespawnEffectDrainsDueEntries(t *testing.T) {
	respawns := &fakeRespawner{}
	e := NewRespawnEffect(respawns)

	require.NoError(t, e.ApplyGlobal(context.Background()))
	require.NoError(t, e.ApplyGlobal(context.Background()))

	require.Equal(t, 2, respawns.calls)
}
