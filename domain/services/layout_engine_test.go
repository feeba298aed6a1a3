package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
)

func node(id, label string) aggregates.NodeSnapshot {
	return aggregates.NodeSnapshot{ID: id, Data: aggregates.NodeData{Label: label}}
}

func edge(id, source, target string) aggregates.EdgeSnapshot {
	return aggregates.EdgeSnapshot{ID: id, Source: source, Target: target}
}

func mustNodeID(t *testing.T, id string) valueobjects.NodeID {
	t.Helper()
	nodeID, err := valueobjects.NewNodeIDFromString(id)
	require.NoError(t, err)
	return nodeID
}

func TestLayoutPositionsEveryNode(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("root", "Root"), node("a", "A"), node("b", "B"), node("c", "C")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "root", "a"), edge("e2", "root", "b"), edge("e3", "a", "c")},
	}

	positions := engine.Layout(snapshot, DefaultLayoutOptions())

	require.Len(t, positions, 4)
	for id, p := range positions {
		assert.GreaterOrEqual(t, p.X(), 0.0, "node %s", id.String())
		assert.GreaterOrEqual(t, p.Y(), 0.0, "node %s", id.String())
	}
}

func TestLayoutRanksFollowEdges(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("root", "Root"), node("mid", "Mid"), node("leaf", "Leaf")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "root", "mid"), edge("e2", "mid", "leaf")},
	}

	positions := engine.Layout(snapshot, DefaultLayoutOptions())

	root := positions[mustNodeID(t, "root")]
	mid := positions[mustNodeID(t, "mid")]
	leaf := positions[mustNodeID(t, "leaf")]
	assert.Less(t, root.Y(), mid.Y())
	assert.Less(t, mid.Y(), leaf.Y())
}

func TestLayoutLeftToRightGrowsAlongX(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("root", "Root"), node("child", "Child")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "root", "child")},
	}

	opts := DefaultLayoutOptions()
	opts.RankDirection = RankLeftToRight
	positions := engine.Layout(snapshot, opts)

	root := positions[mustNodeID(t, "root")]
	child := positions[mustNodeID(t, "child")]
	assert.Less(t, root.X(), child.X())
	assert.Equal(t, root.Y(), child.Y())
}

func TestLayoutIsDeterministicAcrossInsertionOrder(t *testing.T) {
	engine := NewLayoutEngine()
	edges := []aggregates.EdgeSnapshot{edge("e1", "n1", "n2"), edge("e2", "n1", "n3"), edge("e3", "n2", "n4")}

	forward := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("n1", "1"), node("n2", "2"), node("n3", "3"), node("n4", "4")},
		Edges: edges,
	}
	reversed := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("n4", "4"), node("n3", "3"), node("n2", "2"), node("n1", "1")},
		Edges: edges,
	}

	first := engine.Layout(forward, DefaultLayoutOptions())
	second := engine.Layout(reversed, DefaultLayoutOptions())

	require.Len(t, second, len(first))
	for id, p := range first {
		other, ok := second[id]
		require.True(t, ok, "node %s missing from second run", id.String())
		assert.Equal(t, p.X(), other.X(), "node %s", id.String())
		assert.Equal(t, p.Y(), other.Y(), "node %s", id.String())
	}
}

func TestLayoutSurvivesCycles(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("a", "A"), node("b", "B"), node("c", "C")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "a", "b"), edge("e2", "b", "c"), edge("e3", "c", "a")},
	}

	positions := engine.Layout(snapshot, DefaultLayoutOptions())

	// the cycle is broken, every node still gets a position
	require.Len(t, positions, 3)
	distinct := map[[2]float64]bool{}
	for _, p := range positions {
		distinct[[2]float64{p.X(), p.Y()}] = true
	}
	assert.Len(t, distinct, 3, "positions must not overlap")
}

func TestLayoutIgnoresSelfLoopsAndDuplicateEdges(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("a", "A"), node("b", "B")},
		Edges: []aggregates.EdgeSnapshot{
			edge("e1", "a", "a"),
			edge("e2", "a", "b"),
			edge("e3", "a", "b"),
			edge("e4", "ghost", "b"),
		},
	}

	positions := engine.Layout(snapshot, DefaultLayoutOptions())

	require.Len(t, positions, 2)
	a := positions[mustNodeID(t, "a")]
	b := positions[mustNodeID(t, "b")]
	assert.Less(t, a.Y(), b.Y())
}

func TestLayoutStacksDisconnectedComponents(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("a1", "A1"), node("a2", "A2"), node("b1", "B1"), node("b2", "B2")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "a1", "a2"), edge("e2", "b1", "b2")},
	}

	positions := engine.Layout(snapshot, DefaultLayoutOptions())

	require.Len(t, positions, 4)
	// roots of the two components must not share a position
	a1 := positions[mustNodeID(t, "a1")]
	b1 := positions[mustNodeID(t, "b1")]
	assert.NotEqual(t, [2]float64{a1.X(), a1.Y()}, [2]float64{b1.X(), b1.Y()})
}

func TestLayoutEmptySnapshot(t *testing.T) {
	engine := NewLayoutEngine()
	positions := engine.Layout(aggregates.GraphSnapshot{}, DefaultLayoutOptions())
	assert.Empty(t, positions)
}

func TestLayoutZeroOptionsFallBackToDefaults(t *testing.T) {
	engine := NewLayoutEngine()
	snapshot := aggregates.GraphSnapshot{
		Nodes: []aggregates.NodeSnapshot{node("a", "A"), node("b", "B")},
		Edges: []aggregates.EdgeSnapshot{edge("e1", "a", "b")},
	}

	positions := engine.Layout(snapshot, LayoutOptions{})

	require.Len(t, positions, 2)
	a := positions[mustNodeID(t, "a")]
	b := positions[mustNodeID(t, "b")]
	assert.NotEqual(t, a.Y(), b.Y())
}
