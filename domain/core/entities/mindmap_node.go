package entities

import (
	"errors"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
)

// MindmapNode is an entity representing a single labeled node of a mindmap.
// Identity is the NodeID; label and position are mutable state.
type MindmapNode struct {
	id       valueobjects.NodeID
	label    string
	position valueobjects.Position
}

// NewMindmapNode creates a node with a fresh client-side id
func NewMindmapNode(label string, position valueobjects.Position) (*MindmapNode, error) {
	if label == "" {
		return nil, errors.New("node label is required")
	}
	return &MindmapNode{
		id:       valueobjects.NewNodeID(),
		label:    label,
		position: position,
	}, nil
}

// ReconstructMindmapNode recreates a node from stored or generated data,
// keeping the id it arrived with.
func ReconstructMindmapNode(id valueobjects.NodeID, label string, position valueobjects.Position) (*MindmapNode, error) {
	if id.IsZero() {
		return nil, errors.New("node ID is required")
	}
	return &MindmapNode{id: id, label: label, position: position}, nil
}

// ID returns the node's identifier
func (n *MindmapNode) ID() valueobjects.NodeID {
	return n.id
}

// Label returns the node's label
func (n *MindmapNode) Label() string {
	return n.label
}

// Position returns the node's graph-space position
func (n *MindmapNode) Position() valueobjects.Position {
	return n.position
}

// Rename updates the node label
func (n *MindmapNode) Rename(label string) error {
	if label == "" {
		return errors.New("node label is required")
	}
	n.label = label
	return nil
}

// MoveTo updates the node position
func (n *MindmapNode) MoveTo(position valueobjects.Position) {
	n.position = position
}
