package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
)

func TestPresetKindsAreStableAndComplete(t *testing.T) {
	kinds := PresetKinds()
	assert.Equal(t, []PresetKind{PresetConnected, PresetDiagram, PresetScheme, PresetUnconnected}, kinds)
}

func TestEveryPresetLoadsIntoAValidGraph(t *testing.T) {
	for _, kind := range PresetKinds() {
		snapshot, ok := Preset(kind)
		require.True(t, ok, "preset %s", kind)
		require.NotEmpty(t, snapshot.Nodes, "preset %s", kind)

		graph, err := aggregates.FromSnapshot(snapshot)
		require.NoError(t, err, "preset %s", kind)
		assert.NoError(t, graph.Validate(), "preset %s", kind)
		assert.Equal(t, len(snapshot.Nodes), graph.NodeCount(), "preset %s", kind)
		assert.Equal(t, len(snapshot.Edges), graph.EdgeCount(), "preset %s", kind)
	}
}

func TestUnknownPreset(t *testing.T) {
	_, ok := Preset("spiral")
	assert.False(t, ok)
}

func TestUnconnectedPresetHasNoEdges(t *testing.T) {
	snapshot, ok := Preset(PresetUnconnected)
	require.True(t, ok)
	assert.Empty(t, snapshot.Edges)
	assert.True(t, snapshot.HasMeaningfulPositions())
}
