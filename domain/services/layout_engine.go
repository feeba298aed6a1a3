package services

import (
	"sort"

	"github.com/gabigoranov/Study-Platform-sub000/domain/core/aggregates"
	"github.com/gabigoranov/Study-Platform-sub000/domain/core/valueobjects"
)

// RankDirection controls the axis along which ranks grow
type RankDirection string

const (
	RankTopToBottom RankDirection = "TB"
	RankLeftToRight RankDirection = "LR"
)

// LayoutOptions configures node geometry and spacing for a layout pass
type LayoutOptions struct {
	NodeWidth     float64
	NodeHeight    float64
	RankDirection RankDirection
	MarginX       float64
	MarginY       float64
}

// DefaultLayoutOptions matches the editor's node geometry
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		NodeWidth:     180,
		NodeHeight:    60,
		RankDirection: RankTopToBottom,
		MarginX:       50,
		MarginY:       50,
	}
}

// LayoutEngine computes hierarchical positions for a mindmap snapshot.
// The algorithm is the classic layered approach: rank by longest path from a
// source, order within ranks by a barycenter heuristic, then assign
// coordinates from (rank, order). It is deterministic for a fixed edge set
// regardless of node insertion order, and never fails on malformed input:
// self-loops carry no rank constraint, duplicate edges are deduplicated, and
// cycles are broken by ignoring back-edges found during a depth-first sweep.
type LayoutEngine struct{}

// NewLayoutEngine creates a layout engine
func NewLayoutEngine() *LayoutEngine {
	return &LayoutEngine{}
}

// Layout computes a position for every node in the snapshot.
func (e *LayoutEngine) Layout(snapshot aggregates.GraphSnapshot, opts LayoutOptions) map[valueobjects.NodeID]valueobjects.Position {
	if opts.NodeWidth <= 0 || opts.NodeHeight <= 0 {
		defaults := DefaultLayoutOptions()
		if opts.NodeWidth <= 0 {
			opts.NodeWidth = defaults.NodeWidth
		}
		if opts.NodeHeight <= 0 {
			opts.NodeHeight = defaults.NodeHeight
		}
	}
	if opts.RankDirection == "" {
		opts.RankDirection = RankTopToBottom
	}

	g := buildLayoutGraph(snapshot)
	g.breakCycles()
	g.assignRanks()

	positions := make(map[valueobjects.NodeID]valueobjects.Position, len(g.ids))
	var mainOffset float64

	for _, comp := range g.components() {
		ranks := comp.orderedRanks()
		for sweep := 0; sweep < 4; sweep++ {
			if sweep%2 == 0 {
				comp.sweepDown(ranks)
			} else {
				comp.sweepUp(ranks)
			}
		}

		crossSpan := 0.0
		for rank, row := range ranks {
			for slot, id := range row {
				var x, y float64
				if opts.RankDirection == RankLeftToRight {
					x = opts.MarginX + float64(rank)*(opts.NodeWidth+opts.MarginX)
					y = mainOffset + opts.MarginY + float64(slot)*(opts.NodeHeight+opts.MarginY)
				} else {
					x = mainOffset + opts.MarginX + float64(slot)*(opts.NodeWidth+opts.MarginX)
					y = opts.MarginY + float64(rank)*(opts.NodeHeight+opts.MarginY)
				}
				// Inputs are finite so the position is always valid.
				p, _ := valueobjects.NewPosition(x, y)
				positions[g.ids[id]] = p
			}
			rowSpan := float64(len(row))
			if rowSpan > crossSpan {
				crossSpan = rowSpan
			}
		}

		// Stack disconnected components along the cross axis so they never
		// overlap.
		if opts.RankDirection == RankLeftToRight {
			mainOffset += crossSpan * (opts.NodeHeight + opts.MarginY)
		} else {
			mainOffset += crossSpan * (opts.NodeWidth + opts.MarginX)
		}
	}

	return positions
}

// layoutGraph is the internal adjacency form used during a layout pass.
// Nodes are referenced by dense index; ids[i] maps back to the NodeID.
type layoutGraph struct {
	ids   []valueobjects.NodeID
	index map[string]int
	// out/in hold the deduplicated, self-loop-free edge set.
	out [][]int
	in  [][]int
	// undirected neighbor lists, used for component discovery and barycenters
	neighbors [][]int
	rank      []int
	slot      []int
}

func buildLayoutGraph(snapshot aggregates.GraphSnapshot) *layoutGraph {
	raw := make([]string, 0, len(snapshot.Nodes))
	seen := make(map[string]bool, len(snapshot.Nodes))
	for _, n := range snapshot.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			raw = append(raw, n.ID)
		}
	}
	// Sorting here is what makes ranking independent of insertion order.
	sort.Strings(raw)

	g := &layoutGraph{
		ids:       make([]valueobjects.NodeID, len(raw)),
		index:     make(map[string]int, len(raw)),
		out:       make([][]int, len(raw)),
		in:        make([][]int, len(raw)),
		neighbors: make([][]int, len(raw)),
		rank:      make([]int, len(raw)),
		slot:      make([]int, len(raw)),
	}
	for i, id := range raw {
		nodeID, _ := valueobjects.NewNodeIDFromString(id)
		g.ids[i] = nodeID
		g.index[id] = i
	}

	type pair struct{ s, t int }
	dedup := make(map[pair]bool, len(snapshot.Edges))
	for _, e := range snapshot.Edges {
		s, okS := g.index[e.Source]
		t, okT := g.index[e.Target]
		if !okS || !okT || s == t {
			// Unknown endpoints and self-loops contribute no constraint.
			continue
		}
		p := pair{s, t}
		if dedup[p] {
			continue
		}
		dedup[p] = true
		g.out[s] = append(g.out[s], t)
		g.in[t] = append(g.in[t], s)
		g.neighbors[s] = append(g.neighbors[s], t)
		g.neighbors[t] = append(g.neighbors[t], s)
	}
	for i := range g.out {
		sort.Ints(g.out[i])
		sort.Ints(g.in[i])
		sort.Ints(g.neighbors[i])
	}
	return g
}

// breakCycles removes back-edges discovered by a depth-first traversal so the
// remaining edge set is acyclic. Traversal order is the sorted node order,
// which keeps the choice of back-edge deterministic.
func (g *layoutGraph) breakCycles() {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make([]int, len(g.ids))
	drop := make(map[[2]int]bool)

	var visit func(v int)
	visit = func(v int) {
		state[v] = inStack
		for _, w := range g.out[v] {
			switch state[w] {
			case inStack:
				drop[[2]int{v, w}] = true
			case unvisited:
				visit(w)
			}
		}
		state[v] = done
	}
	for v := range g.ids {
		if state[v] == unvisited {
			visit(v)
		}
	}
	if len(drop) == 0 {
		return
	}

	for v := range g.out {
		kept := g.out[v][:0]
		for _, w := range g.out[v] {
			if !drop[[2]int{v, w}] {
				kept = append(kept, w)
			}
		}
		g.out[v] = kept
	}
	for w := range g.in {
		kept := g.in[w][:0]
		for _, v := range g.in[w] {
			if !drop[[2]int{v, w}] {
				kept = append(kept, v)
			}
		}
		g.in[w] = kept
	}
}

// assignRanks gives every node its longest-path distance from a source.
// Must run after breakCycles; the edge set is guaranteed acyclic here.
func (g *layoutGraph) assignRanks() {
	memo := make([]int, len(g.ids))
	for i := range memo {
		memo[i] = -1
	}

	var longest func(v int) int
	longest = func(v int) int {
		if memo[v] >= 0 {
			return memo[v]
		}
		memo[v] = 0 // settles sources and guards re-entry
		r := 0
		for _, u := range g.in[v] {
			if d := longest(u) + 1; d > r {
				r = d
			}
		}
		memo[v] = r
		return r
	}

	for v := range g.ids {
		g.rank[v] = longest(v)
	}
}

// component is one connected part of the graph during ordering
type component struct {
	g       *layoutGraph
	members []int
}

// components splits the graph into connected parts, ordered by their smallest
// node so the result is stable.
func (g *layoutGraph) components() []*component {
	assigned := make([]int, len(g.ids))
	for i := range assigned {
		assigned[i] = -1
	}

	var comps []*component
	for v := range g.ids {
		if assigned[v] >= 0 {
			continue
		}
		comp := &component{g: g}
		stack := []int{v}
		assigned[v] = len(comps)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp.members = append(comp.members, n)
			for _, m := range g.neighbors[n] {
				if assigned[m] < 0 {
					assigned[m] = len(comps)
					stack = append(stack, m)
				}
			}
		}
		sort.Ints(comp.members)
		comps = append(comps, comp)
	}
	return comps
}

// orderedRanks groups the component's members by rank, each row initially in
// sorted node order, and records every node's slot.
func (c *component) orderedRanks() [][]int {
	maxRank := 0
	for _, v := range c.members {
		if c.g.rank[v] > maxRank {
			maxRank = c.g.rank[v]
		}
	}
	ranks := make([][]int, maxRank+1)
	for _, v := range c.members {
		ranks[c.g.rank[v]] = append(ranks[c.g.rank[v]], v)
	}
	for _, row := range ranks {
		for slot, v := range row {
			c.g.slot[v] = slot
		}
	}
	return ranks
}

// sweepDown reorders each rank by the barycenter of its neighbors one rank up
func (c *component) sweepDown(ranks [][]int) {
	for r := 1; r < len(ranks); r++ {
		c.reorder(ranks[r], r-1)
	}
}

// sweepUp reorders each rank by the barycenter of its neighbors one rank down
func (c *component) sweepUp(ranks [][]int) {
	for r := len(ranks) - 2; r >= 0; r-- {
		c.reorder(ranks[r], r+1)
	}
}

func (c *component) reorder(row []int, adjacentRank int) {
	if len(row) < 2 {
		return
	}
	bary := make(map[int]float64, len(row))
	for _, v := range row {
		sum, count := 0.0, 0
		for _, n := range c.g.neighbors[v] {
			if c.g.rank[n] == adjacentRank {
				sum += float64(c.g.slot[n])
				count++
			}
		}
		if count == 0 {
			// No pull from the adjacent rank; hold the current slot.
			bary[v] = float64(c.g.slot[v])
		} else {
			bary[v] = sum / float64(count)
		}
	}
	sort.SliceStable(row, func(i, j int) bool {
		return bary[row[i]] < bary[row[j]]
	})
	for slot, v := range row {
		c.g.slot[v] = slot
	}
}
