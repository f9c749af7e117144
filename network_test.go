package ambient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNetwork(t *testing.T, layer *Layer) *Network {
	t.Helper()
	n, err := NewNetwork(layer, DefaultConfig().Network, seeded(21), nil)
	require.NoError(t, err)
	return n
}

func TestNetworkPopulatesScene(t *testing.T) {
	layer := NewLayer()
	n := newTestNetwork(t, layer)

	assert.Equal(t, 20, layer.CountKind(ShapeSphere))
	assert.Equal(t, len(n.Graph().Edges()), layer.CountKind(ShapeLine))
	assert.Equal(t, 10, layer.CountKind(ShapeBox))

	node := n.NodeShape(0)
	assert.Equal(t, n.Graph().Node(0).Position(), node.Position)
	assert.Equal(t, ColorPrimary, node.Color)

	for _, s := range layer.Shapes() {
		if s.Kind == ShapeLine {
			assert.Equal(t, 0.3, s.Opacity)
			assert.Equal(t, ColorSecondary, s.Color)
		}
	}
}

func TestNetworkUpdateKeepsNodesFixed(t *testing.T) {
	layer := NewLayer()
	n := newTestNetwork(t, layer)
	before := make([]Vec3, len(n.Graph().Nodes()))
	for i := range before {
		before[i] = n.NodeShape(i).Position
	}

	now := time.Duration(0)
	for range 120 {
		now += frame
		n.Update(now)
	}

	for i := range before {
		s := n.NodeShape(i)
		assert.Equal(t, before[i], s.Position, "node %d moved", i)
		assert.Equal(t, before[i], n.Graph().Node(i).Position())
		assert.LessOrEqual(t, s.Offset.Y, 0.6+1e-9, "bob stays within amplitude")
		assert.GreaterOrEqual(t, s.Offset.Y, -0.6-1e-9)
		assertNear(t, "spin", s.Rotation.Y, 120*0.01)
	}
}

func TestNetworkAgentShapesFollowAgents(t *testing.T) {
	layer := NewLayer()
	n := newTestNetwork(t, layer)

	now := time.Duration(0)
	for range 500 {
		now += frame
		n.Update(now)
	}

	for i, a := range n.Swarm().Agents() {
		assert.Equal(t, a.Position(n.Graph()), n.AgentShape(i).Position)
	}
}

func TestNetworkCloseRemovesShapes(t *testing.T) {
	layer := NewLayer()
	n := newTestNetwork(t, layer)
	require.Positive(t, layer.Len())

	n.Close()

	assert.Equal(t, 0, layer.Len())
}
