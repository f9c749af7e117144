package ambient

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// NetworkConfig controls the traffic network: graph size, agents and the
// cosmetic look of each shape.
type NetworkConfig struct {
	Graph  GraphConfig `mapstructure:"graph" yaml:"graph"`
	Agents SwarmConfig `mapstructure:"agents" yaml:"agents"`

	NodeRadius  float64 `mapstructure:"node_radius" yaml:"node_radius" validate:"gt=0"`
	NodeColor   Color   `mapstructure:"node_color" yaml:"node_color"`
	EdgeColor   Color   `mapstructure:"edge_color" yaml:"edge_color"`
	EdgeOpacity float64 `mapstructure:"edge_opacity" yaml:"edge_opacity" validate:"gte=0,lte=1"`
	AgentSize   float64 `mapstructure:"agent_size" yaml:"agent_size" validate:"gt=0"`
	AgentColor  Color   `mapstructure:"agent_color" yaml:"agent_color"`

	// NodeSpin and AgentSpin are radians added per frame to the shapes'
	// rotation. Purely cosmetic.
	NodeSpin  float64 `mapstructure:"node_spin" yaml:"node_spin"`
	AgentSpin float64 `mapstructure:"agent_spin" yaml:"agent_spin"`
	// BobAmplitude is the height of the node bob in world units; node i is
	// drawn at amplitude*sin(t*BobFrequency + i) above its fixed position.
	BobAmplitude float64 `mapstructure:"bob_amplitude" yaml:"bob_amplitude" validate:"gte=0"`
	BobFrequency float64 `mapstructure:"bob_frequency" yaml:"bob_frequency" validate:"gte=0"`
}

// Network binds a graph and its agents to shapes in a host scene and keeps
// those shapes in sync every frame.
type Network struct {
	cfg   NetworkConfig
	graph *Graph
	swarm *Swarm
	scene Scene

	nodeShapes  []*Shape
	edgeShapes  []*Shape
	agentShapes []*Shape

	log *zap.Logger
}

// NewNetwork builds the graph and swarm and adds one sphere per node, one line
// per edge and one box per agent to scene.
func NewNetwork(scene Scene, cfg NetworkConfig, rng *rand.Rand, log *zap.Logger) (*Network, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = newRand()
	}
	g, err := BuildGraph(cfg.Graph, rng)
	if err != nil {
		return nil, err
	}
	swarm, err := NewSwarm(g, cfg.Agents, rng)
	if err != nil {
		return nil, err
	}

	n := &Network{
		cfg:   cfg,
		graph: g,
		swarm: swarm,
		scene: scene,
		log:   log.Named("network"),
	}
	n.createNodes()
	n.createEdges()
	n.createAgents()

	n.log.Debug("network created",
		zap.Int("nodes", len(g.nodes)),
		zap.Int("edges", len(g.edges)),
		zap.Int("self_loops_skipped", g.skipped),
		zap.Int("agents", swarm.Len()),
	)
	return n, nil
}

func (n *Network) createNodes() {
	n.nodeShapes = make([]*Shape, len(n.graph.nodes))
	for i := range n.graph.nodes {
		s := NewShape(fmt.Sprintf("node-%d", i), ShapeSphere)
		s.Position = n.graph.nodes[i].pos
		s.Size = n.cfg.NodeRadius
		s.Color = n.cfg.NodeColor
		s.Emissive = 0.5
		n.nodeShapes[i] = s
		n.scene.Add(s)
	}
}

func (n *Network) createEdges() {
	n.edgeShapes = make([]*Shape, len(n.graph.edges))
	for i := range n.graph.edges {
		e := &n.graph.edges[i]
		s := NewShape(fmt.Sprintf("edge-%d", i), ShapeLine)
		s.Position, s.End = n.graph.Endpoints(e)
		s.Color = n.cfg.EdgeColor
		s.Opacity = n.cfg.EdgeOpacity
		n.edgeShapes[i] = s
		n.scene.Add(s)
	}
}

func (n *Network) createAgents() {
	n.agentShapes = make([]*Shape, n.swarm.Len())
	for i := range n.swarm.agents {
		s := NewShape(fmt.Sprintf("agent-%d", i), ShapeBox)
		s.Position = n.swarm.agents[i].Position(n.graph)
		s.Size = n.cfg.AgentSize
		s.Color = n.cfg.AgentColor
		s.Emissive = 0.8
		n.agentShapes[i] = s
		n.scene.Add(s)
	}
}

// Update advances the network by one frame at scheduler time now and returns
// the number of agents that rebound to a new edge.
func (n *Network) Update(now time.Duration) int {
	t := now.Seconds() * n.cfg.BobFrequency
	for i, s := range n.nodeShapes {
		s.Rotation.Y += n.cfg.NodeSpin
		s.Offset.Y = n.cfg.BobAmplitude * math.Sin(t+float64(i))
	}

	rebinds := n.swarm.Step()
	for i, s := range n.agentShapes {
		s.Position = n.swarm.agents[i].Position(n.graph)
		s.Rotation.X += n.cfg.AgentSpin
		s.Rotation.Z += n.cfg.AgentSpin
	}
	return rebinds
}

// Close removes every shape the network added from the scene.
func (n *Network) Close() {
	for _, group := range [][]*Shape{n.agentShapes, n.edgeShapes, n.nodeShapes} {
		for _, s := range group {
			n.scene.Remove(s)
		}
	}
	n.nodeShapes, n.edgeShapes, n.agentShapes = nil, nil, nil
}

// Graph returns the network's graph.
func (n *Network) Graph() *Graph { return n.graph }

// Swarm returns the network's agents.
func (n *Network) Swarm() *Swarm { return n.swarm }

// NodeShape returns the sphere drawn for node i.
func (n *Network) NodeShape(i int) *Shape { return n.nodeShapes[i] }

// AgentShape returns the box drawn for agent i.
func (n *Network) AgentShape(i int) *Shape { return n.agentShapes[i] }
