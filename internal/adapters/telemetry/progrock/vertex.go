package progrock

import (
	"fmt"
	"io"

	"github.com/vito/progrock"
	"go.trai.ch/sculpt/internal/core/domain"
	"go.trai.ch/sculpt/internal/core/ports"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is one workspace or pass on the progrock tape. Resolver output goes to the
// vertex streams, sculpt's own notes are prefixed with their level.
type Vertex struct {
	rec  *progrock.VertexRecorder
	name string
}

func (v *Vertex) Stdout() io.Writer { return v.rec.Stdout() }

func (v *Vertex) Stderr() io.Writer { return v.rec.Stderr() }

// Log writes msg to stderr for warnings and errors and to stdout otherwise.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	w := v.rec.Stdout()
	if level >= domain.LogLevelWarn {
		w = v.rec.Stderr()
	}
	_, _ = fmt.Fprintf(w, "%-5s %s\n", level.String(), msg)
}

// Invalidated lists the input changes of a workspace, one path per line.
func (v *Vertex) Invalidated(inv domain.Invalidation) {
	out := v.rec.Stdout()
	for _, group := range []struct {
		mark  string
		paths []string
	}{
		{"+", inv.Added},
		{"~", inv.Changed},
		{"-", inv.Dropped},
	} {
		for _, path := range group.paths {
			_, _ = fmt.Fprintf(out, "%s %s\n", group.mark, path)
		}
	}
	_, _ = fmt.Fprintf(out, "%d inputs, %d rehashed, %d reused\n", len(inv.Files), inv.Rehashed, inv.Reused)
}

// Complete finishes the vertex. A failed vertex also records the error on stderr.
func (v *Vertex) Complete(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(v.rec.Stderr(), "%s failed: %v\n", v.name, err)
	}
	v.rec.Done(err)
}

// Cached marks a workspace whose inputs did not change.
func (v *Vertex) Cached() {
	v.rec.Cached()
}
