package aggregates

// GraphSnapshot is the wire-shaped projection of a mindmap graph. The JSON
// layout matches what the platform API produces and consumes for mindmap data.
type GraphSnapshot struct {
	Nodes []NodeSnapshot `json:"nodes"`
	Edges []EdgeSnapshot `json:"edges"`
}

// NodeSnapshot is one node of a snapshot
type NodeSnapshot struct {
	ID       string           `json:"id"`
	Data     NodeData         `json:"data"`
	Position PositionSnapshot `json:"position"`
}

// NodeData carries the displayable payload of a node
type NodeData struct {
	Label string `json:"label"`
}

// PositionSnapshot is a graph-space coordinate pair
type PositionSnapshot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EdgeSnapshot is one edge of a snapshot
type EdgeSnapshot struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// HasMeaningfulPositions reports whether any node sits away from the origin.
// Generated drafts typically arrive with every node at (0,0); those get one
// automatic layout pass when review opens.
func (s GraphSnapshot) HasMeaningfulPositions() bool {
	for _, n := range s.Nodes {
		if n.Position.X != 0 || n.Position.Y != 0 {
			return true
		}
	}
	return false
}
