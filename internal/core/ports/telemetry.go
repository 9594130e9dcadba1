package ports

import (
	"context"
	"io"

	"go.trai.ch/sculpt/internal/core/domain"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records units of work of an invalidation pass.
type Telemetry interface {
	// Record starts a new vertex and returns a context carrying it.
	Record(ctx context.Context, name string, opts ...VertexOption) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one recorded unit of work.
type Vertex interface {
	// Stdout returns a writer for regular output of the unit.
	Stdout() io.Writer
	// Stderr returns a writer for error output of the unit.
	Stderr() io.Writer
	// Log records a message with the given level.
	Log(level domain.LogLevel, msg string)
	// Invalidated records the input changes found for a workspace.
	Invalidated(inv domain.Invalidation)
	// Complete marks the vertex as finished, failed when err is not nil.
	Complete(err error)
	// Cached marks the vertex as answered from previously recorded state.
	Cached()
}

// VertexConfig holds configuration for a starting vertex.
type VertexConfig struct {
	// Group names the vertex group, such as the pass the vertex belongs to.
	Group string
}

// VertexOption is a functional option for configuring a vertex.
type VertexOption func(*VertexConfig)

// WithGroup places the vertex in the named group.
func WithGroup(name string) VertexOption {
	return func(c *VertexConfig) {
		c.Group = name
	}
}

type vertexKey struct{}

// ContextWithVertex returns a context carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex carried by ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
