package ambient

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// GraphConfig sizes a random geometric graph.
type GraphConfig struct {
	// NodeCount is the number of nodes; at least 2.
	NodeCount int `mapstructure:"nodes" yaml:"nodes" validate:"gte=2"`
	// EdgeCount is the number of edge draws. Draws that pick the same node
	// twice are skipped, so the graph may end up with fewer edges.
	EdgeCount int `mapstructure:"edges" yaml:"edges" validate:"gte=0"`
	// Extent is the side length of the cube nodes are placed in, centered on
	// the origin.
	Extent float64 `mapstructure:"extent" yaml:"extent" validate:"gt=0"`
}

// Node is a point of the network graph. Its position is fixed at build time.
type Node struct {
	Index int
	pos   Vec3
}

// Position returns the node's world position.
func (n *Node) Position() Vec3 {
	return n.pos
}

// Edge connects two distinct nodes. Start and End are node indices; agents
// travel from Start to End as progress goes from 0 to 1.
type Edge struct {
	Index      int
	Start, End int
}

// Graph is an immutable set of nodes and edges shared read-only by agents.
type Graph struct {
	nodes   []Node
	edges   []Edge
	skipped int
}

// BuildGraph places cfg.NodeCount nodes uniformly in the cube and draws
// cfg.EdgeCount random node pairs. Self-loop draws are dropped without a
// retry and duplicate pairs are kept.
func BuildGraph(cfg GraphConfig, rng *rand.Rand) (*Graph, error) {
	if cfg.NodeCount < 2 {
		return nil, errors.Wrapf(ErrTooFewNodes, "requested %d", cfg.NodeCount)
	}
	if cfg.EdgeCount < 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "edge count %d", cfg.EdgeCount)
	}
	if cfg.Extent <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "graph extent %v", cfg.Extent)
	}
	if rng == nil {
		rng = newRand()
	}

	g := &Graph{
		nodes: make([]Node, cfg.NodeCount),
		edges: make([]Edge, 0, cfg.EdgeCount),
	}
	for i := range g.nodes {
		g.nodes[i] = Node{
			Index: i,
			pos: Vec3{
				(rng.Float64() - 0.5) * cfg.Extent,
				(rng.Float64() - 0.5) * cfg.Extent,
				(rng.Float64() - 0.5) * cfg.Extent,
			},
		}
	}
	for range cfg.EdgeCount {
		a := rng.IntN(cfg.NodeCount)
		b := rng.IntN(cfg.NodeCount)
		if a == b {
			g.skipped++
			continue
		}
		g.edges = append(g.edges, Edge{Index: len(g.edges), Start: a, End: b})
	}
	return g, nil
}

// Nodes returns the node list. The returned slice MUST NOT be mutated.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the edge list. The returned slice MUST NOT be mutated.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Node returns the node at index i.
func (g *Graph) Node(i int) *Node {
	return &g.nodes[i]
}

// Edge returns the edge at index i.
func (g *Graph) Edge(i int) *Edge {
	return &g.edges[i]
}

// Skipped returns how many edge draws were dropped as self-loops.
func (g *Graph) Skipped() int {
	return g.skipped
}

// Endpoints returns the world positions of e's start and end nodes.
func (g *Graph) Endpoints(e *Edge) (start, end Vec3) {
	return g.nodes[e.Start].pos, g.nodes[e.End].pos
}

// randomEdge picks an edge uniformly. The graph must have at least one edge.
func (g *Graph) randomEdge(rng *rand.Rand) *Edge {
	return &g.edges[rng.IntN(len(g.edges))]
}
