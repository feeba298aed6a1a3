package services

import (
	"sort"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
)

// PresetKind names a starter graph a client can open the editor with
type PresetKind string

const (
	PresetUnconnected PresetKind = "unconnected"
	PresetConnected   PresetKind = "connected"
	PresetDiagram     PresetKind = "diagram"
	PresetScheme      PresetKind = "scheme"
)

func presetNode(id string, x, y float64, label string) aggregates.NodeSnapshot {
	return aggregates.NodeSnapshot{
		ID:       id,
		Data:     aggregates.NodeData{Label: label},
		Position: aggregates.PositionSnapshot{X: x, Y: y},
	}
}

var graphPresets = map[PresetKind]aggregates.GraphSnapshot{
	PresetUnconnected: {
		Nodes: []aggregates.NodeSnapshot{
			presetNode("n1", 0, 0, "Idea A"),
			presetNode("n2", 200, 0, "Idea B"),
			presetNode("n3", 0, 140, "Idea C"),
			presetNode("n4", 200, 140, "Idea D"),
		},
		Edges: []aggregates.EdgeSnapshot{},
	},
	PresetConnected: {
		Nodes: []aggregates.NodeSnapshot{
			presetNode("n1", 0, 0, "Central"),
			presetNode("n2", 200, -60, "Branch 1"),
			presetNode("n3", 200, 60, "Branch 2"),
			presetNode("n4", 400, 0, "Leaf"),
		},
		Edges: []aggregates.EdgeSnapshot{
			{ID: "e1", Source: "n1", Target: "n2"},
			{ID: "e2", Source: "n1", Target: "n3"},
			{ID: "e3", Source: "n2", Target: "n4"},
		},
	},
	PresetDiagram: {
		Nodes: []aggregates.NodeSnapshot{
			presetNode("start", 0, 0, "Start"),
			presetNode("process1", 200, 0, "Process"),
			presetNode("decision", 400, 0, "Decision"),
			presetNode("end", 600, 0, "End"),
		},
		Edges: []aggregates.EdgeSnapshot{
			{ID: "e1", Source: "start", Target: "process1"},
			{ID: "e2", Source: "process1", Target: "decision"},
			{ID: "e3", Source: "decision", Target: "end"},
		},
	},
	PresetScheme: {
		Nodes: []aggregates.NodeSnapshot{
			presetNode("s1", 0, 0, "Module A"),
			presetNode("s2", 180, -90, "Module B"),
			presetNode("s3", 180, 90, "Module C"),
			presetNode("s4", 360, 0, "Module D"),
			presetNode("s5", 540, 0, "Module E"),
		},
		Edges: []aggregates.EdgeSnapshot{
			{ID: "s1-s2", Source: "s1", Target: "s2"},
			{ID: "s1-s3", Source: "s1", Target: "s3"},
			{ID: "s2-s4", Source: "s2", Target: "s4"},
			{ID: "s3-s4", Source: "s3", Target: "s4"},
			{ID: "s4-s5", Source: "s4", Target: "s5"},
		},
	},
}

// Preset returns the named starter graph
func Preset(kind PresetKind) (aggregates.GraphSnapshot, bool) {
	snapshot, ok := graphPresets[kind]
	return snapshot, ok
}

// PresetKinds lists the available presets in stable order
func PresetKinds() []PresetKind {
	kinds := make([]PresetKind, 0, len(graphPresets))
	for kind := range graphPresets {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
