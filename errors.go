package ambient

import "github.com/cockroachdb/errors"

// Sentinel errors returned by constructors and Start-style calls. Every
// rejection is wrapped with detail; test with errors.Is.
var (
	// ErrInvalidDuration is returned for a tween or effect with duration <= 0.
	ErrInvalidDuration = errors.New("ambient: duration must be positive")
	// ErrInvalidTween is returned for a tween with no target or no properties.
	ErrInvalidTween = errors.New("ambient: invalid tween")
	// ErrTooFewNodes is returned when a graph is requested with fewer than 2 nodes.
	ErrTooFewNodes = errors.New("ambient: graph needs at least 2 nodes")
	// ErrNoEdges is returned when agents are requested over a graph with no edges.
	ErrNoEdges = errors.New("ambient: graph has no edges to travel")
	// ErrInvalidCount is returned for a non-positive burst or element count.
	ErrInvalidCount = errors.New("ambient: count must be positive")
	// ErrInvalidConfig is returned when a config section fails validation.
	ErrInvalidConfig = errors.New("ambient: invalid config")
	// ErrClosed is returned by Engine operations after Close.
	ErrClosed = errors.New("ambient: engine closed")
)
