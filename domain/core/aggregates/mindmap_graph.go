package aggregates

import (
	"errors"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/entities"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
	pkgerrors "github.com/gabigoranov/Study-Platform-sub000/pkg/errors"
)

// MindmapGraph is the aggregate root for an in-memory mindmap graph.
// It ensures consistency boundaries for the node and edge sets: an edge can
// only ever reference nodes that exist, and removing a node removes its
// incident edges in the same mutation.
type MindmapGraph struct {
	nodes     map[valueobjects.NodeID]*entities.MindmapNode
	nodeOrder []valueobjects.NodeID
	edges     map[valueobjects.EdgeID]*Edge
	edgeOrder []valueobjects.EdgeID
}

// Edge represents a labeled connection between two nodes
type Edge struct {
	ID     valueobjects.EdgeID
	Source valueobjects.NodeID
	Target valueobjects.NodeID
	Label  string
}

// Business-rule limits, carried over from the platform's graph constraints
const (
	maxNodes = 10000
	maxEdges = 50000
)

// NewMindmapGraph creates an empty graph aggregate
func NewMindmapGraph() *MindmapGraph {
	return &MindmapGraph{
		nodes: make(map[valueobjects.NodeID]*entities.MindmapNode),
		edges: make(map[valueobjects.EdgeID]*Edge),
	}
}

// FromSnapshot reconstructs a graph from a stored or generated snapshot.
// Edges referencing unknown nodes are rejected; an edge without an id gets
// the conventional "source-target" id.
func FromSnapshot(snapshot GraphSnapshot) (*MindmapGraph, error) {
	g := NewMindmapGraph()

	for _, n := range snapshot.Nodes {
		id, err := valueobjects.NewNodeIDFromString(n.ID)
		if err != nil {
			return nil, err
		}
		position, err := valueobjects.NewPosition(n.Position.X, n.Position.Y)
		if err != nil {
			return nil, err
		}
		node, err := entities.ReconstructMindmapNode(id, n.Data.Label, position)
		if err != nil {
			return nil, err
		}
		if _, exists := g.nodes[id]; exists {
			return nil, errors.New("duplicate node id in snapshot: " + n.ID)
		}
		g.nodes[id] = node
		g.nodeOrder = append(g.nodeOrder, id)
	}

	for _, e := range snapshot.Edges {
		source, err := valueobjects.NewNodeIDFromString(e.Source)
		if err != nil {
			return nil, err
		}
		target, err := valueobjects.NewNodeIDFromString(e.Target)
		if err != nil {
			return nil, err
		}
		if _, err := g.AddEdgeWithID(e.ID, source, target, e.Label); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// AddNode adds a new node and returns its client-assigned id
func (g *MindmapGraph) AddNode(label string, position valueobjects.Position) (valueobjects.NodeID, error) {
	if len(g.nodes) >= maxNodes {
		return valueobjects.NodeID{}, errors.New("maximum nodes reached")
	}

	node, err := entities.NewMindmapNode(label, position)
	if err != nil {
		return valueobjects.NodeID{}, err
	}

	g.nodes[node.ID()] = node
	g.nodeOrder = append(g.nodeOrder, node.ID())
	return node.ID(), nil
}

// MoveNode updates a node's position
func (g *MindmapGraph) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	node, exists := g.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}
	node.MoveTo(position)
	return nil
}

// RenameNode updates a node's label
func (g *MindmapGraph) RenameNode(id valueobjects.NodeID, label string) error {
	node, exists := g.nodes[id]
	if !exists {
		return pkgerrors.NewNotFoundError("node")
	}
	return node.Rename(label)
}

// RemoveNode removes a node and cascades to every edge incident to it
func (g *MindmapGraph) RemoveNode(id valueobjects.NodeID) error {
	if _, exists := g.nodes[id]; !exists {
		return pkgerrors.NewNotFoundError("node")
	}

	// Collect incident edges first so the cascade happens atomically with the
	// node removal; no observer can see a dangling edge.
	removed := make(map[valueobjects.EdgeID]bool)
	for edgeID, edge := range g.edges {
		if edge.Source.Equals(id) || edge.Target.Equals(id) {
			removed[edgeID] = true
		}
	}

	for edgeID := range removed {
		delete(g.edges, edgeID)
	}
	g.edgeOrder = filterEdgeOrder(g.edgeOrder, removed)

	delete(g.nodes, id)
	for i, nodeID := range g.nodeOrder {
		if nodeID.Equals(id) {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}

	return nil
}

// AddEdge connects two existing nodes and returns the new edge id.
// Both endpoints must be present; a missing endpoint is a caller bug surfaced
// as EdgeEndpointMissing. Connecting the same pair twice returns the existing
// edge id rather than duplicating it.
func (g *MindmapGraph) AddEdge(source, target valueobjects.NodeID, label string) (valueobjects.EdgeID, error) {
	return g.AddEdgeWithID("", source, target, label)
}

// AddEdgeWithID is AddEdge for edges that already carry an id (snapshot
// import, connect gestures from a surface that assigns ids).
func (g *MindmapGraph) AddEdgeWithID(id string, source, target valueobjects.NodeID, label string) (valueobjects.EdgeID, error) {
	if _, exists := g.nodes[source]; !exists {
		return valueobjects.EdgeID{}, pkgerrors.NewEdgeEndpointMissingError(source.String())
	}
	if _, exists := g.nodes[target]; !exists {
		return valueobjects.EdgeID{}, pkgerrors.NewEdgeEndpointMissingError(target.String())
	}
	if len(g.edges) >= maxEdges {
		return valueobjects.EdgeID{}, errors.New("maximum edges reached")
	}

	for _, edge := range g.edges {
		if edge.Source.Equals(source) && edge.Target.Equals(target) {
			return edge.ID, nil
		}
	}

	var edgeID valueobjects.EdgeID
	if id != "" {
		parsed, err := valueobjects.NewEdgeIDFromString(id)
		if err != nil {
			return valueobjects.EdgeID{}, err
		}
		edgeID = parsed
	} else {
		edgeID = valueobjects.DeriveEdgeID(source, target)
	}
	if _, exists := g.edges[edgeID]; exists {
		return edgeID, nil
	}

	g.edges[edgeID] = &Edge{ID: edgeID, Source: source, Target: target, Label: label}
	g.edgeOrder = append(g.edgeOrder, edgeID)
	return edgeID, nil
}

// RemoveEdge removes a single edge
func (g *MindmapGraph) RemoveEdge(id valueobjects.EdgeID) error {
	if _, exists := g.edges[id]; !exists {
		return pkgerrors.NewNotFoundError("edge")
	}
	delete(g.edges, id)
	g.edgeOrder = filterEdgeOrder(g.edgeOrder, map[valueobjects.EdgeID]bool{id: true})
	return nil
}

// HasNode checks if a node exists in the graph
func (g *MindmapGraph) HasNode(id valueobjects.NodeID) bool {
	_, exists := g.nodes[id]
	return exists
}

// NodeCount returns the number of nodes
func (g *MindmapGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *MindmapGraph) EdgeCount() int {
	return len(g.edges)
}

// ApplyPositions moves every listed node to its computed position. Unknown
// ids are ignored so a layout computed against an older snapshot degrades
// gracefully instead of failing halfway through.
func (g *MindmapGraph) ApplyPositions(positions map[valueobjects.NodeID]valueobjects.Position) {
	for id, position := range positions {
		if node, exists := g.nodes[id]; exists {
			node.MoveTo(position)
		}
	}
}

// Snapshot returns a pure, read-only projection of the graph in insertion
// order, suitable for persistence and layout input.
func (g *MindmapGraph) Snapshot() GraphSnapshot {
	snapshot := GraphSnapshot{
		Nodes: make([]NodeSnapshot, 0, len(g.nodeOrder)),
		Edges: make([]EdgeSnapshot, 0, len(g.edgeOrder)),
	}

	for _, id := range g.nodeOrder {
		node := g.nodes[id]
		snapshot.Nodes = append(snapshot.Nodes, NodeSnapshot{
			ID:       node.ID().String(),
			Data:     NodeData{Label: node.Label()},
			Position: PositionSnapshot{X: node.Position().X(), Y: node.Position().Y()},
		})
	}

	for _, id := range g.edgeOrder {
		edge := g.edges[id]
		snapshot.Edges = append(snapshot.Edges, EdgeSnapshot{
			ID:     edge.ID.String(),
			Source: edge.Source.String(),
			Target: edge.Target.String(),
			Label:  edge.Label,
		})
	}

	return snapshot
}

// Validate ensures graph invariants
func (g *MindmapGraph) Validate() error {
	for _, edge := range g.edges {
		if _, sourceExists := g.nodes[edge.Source]; !sourceExists {
			return errors.New("edge references non-existent source node")
		}
		if _, targetExists := g.nodes[edge.Target]; !targetExists {
			return errors.New("edge references non-existent target node")
		}
	}
	if len(g.nodes) != len(g.nodeOrder) || len(g.edges) != len(g.edgeOrder) {
		return errors.New("order index out of sync with element sets")
	}
	return nil
}

func filterEdgeOrder(order []valueobjects.EdgeID, removed map[valueobjects.EdgeID]bool) []valueobjects.EdgeID {
	kept := order[:0]
	for _, id := range order {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	return kept
}
