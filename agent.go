package ambient

import (
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// SwarmConfig sizes the agent population.
type SwarmConfig struct {
	// Count is the number of agents.
	Count int `mapstructure:"count" yaml:"count" validate:"gte=0"`
	// Speed is the range per-agent speeds are drawn from, in edge lengths per
	// frame. Min must be positive.
	Speed Range `mapstructure:"speed" yaml:"speed"`
}

// Agent travels one edge at a time. Its canonical state is the bound edge,
// progress along it and speed; the world position is always derived.
type Agent struct {
	edge     *Edge
	progress float64
	speed    float64
}

// Edge returns the edge the agent is bound to.
func (a *Agent) Edge() *Edge { return a.edge }

// Progress returns the position along the edge, in [0, 1].
func (a *Agent) Progress() float64 { return a.progress }

// Speed returns the per-frame progress increment.
func (a *Agent) Speed() float64 { return a.speed }

// Position interpolates between the bound edge's endpoints at the current
// progress.
func (a *Agent) Position(g *Graph) Vec3 {
	start, end := g.Endpoints(a.edge)
	return LerpVec3(start, end, a.progress)
}

// step advances progress, rebinding to a freshly drawn edge when the end is
// passed. It reports whether a rebind happened.
func (a *Agent) step(g *Graph, rng *rand.Rand) bool {
	a.progress += a.speed
	if a.progress > 1 {
		a.progress = 0
		a.edge = g.randomEdge(rng)
		return true
	}
	return false
}

// Swarm is the fixed agent population travelling a graph. Agents are never
// destroyed; they are recycled onto new edges indefinitely.
type Swarm struct {
	graph  *Graph
	agents []Agent
	rng    *rand.Rand
}

// NewSwarm binds cfg.Count agents to random edges of g, each with a random
// starting progress in [0, 1) and a speed drawn from cfg.Speed.
func NewSwarm(g *Graph, cfg SwarmConfig, rng *rand.Rand) (*Swarm, error) {
	if cfg.Count < 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "agent count %d", cfg.Count)
	}
	if cfg.Speed.Min <= 0 || !cfg.Speed.valid() {
		return nil, errors.Wrapf(ErrInvalidConfig, "agent speed range [%v, %v]", cfg.Speed.Min, cfg.Speed.Max)
	}
	if cfg.Count > 0 && len(g.edges) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNoEdges, "%d agents over %d nodes", cfg.Count, len(g.nodes)),
			"raise the edge count or lower the agent count to zero")
	}
	if rng == nil {
		rng = newRand()
	}

	s := &Swarm{graph: g, agents: make([]Agent, cfg.Count), rng: rng}
	for i := range s.agents {
		s.agents[i] = Agent{
			edge:     g.randomEdge(rng),
			progress: rng.Float64(),
			speed:    cfg.Speed.Random(rng),
		}
	}
	return s, nil
}

// Step advances every agent by one frame and returns the number of rebinds.
// All agents read the same immutable graph, so update order does not matter.
func (s *Swarm) Step() int {
	rebinds := 0
	for i := range s.agents {
		if s.agents[i].step(s.graph, s.rng) {
			rebinds++
		}
	}
	return rebinds
}

// Agents returns the agent list. The returned slice MUST NOT be mutated.
func (s *Swarm) Agents() []Agent {
	return s.agents
}

// Len returns the population size.
func (s *Swarm) Len() int {
	return len(s.agents)
}

// Graph returns the graph the swarm travels.
func (s *Swarm) Graph() *Graph {
	return s.graph
}
