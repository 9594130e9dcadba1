package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/vito/progrock"
)

type vertexStatus int

const (
	statusRunning vertexStatus = iota
	statusCompleted
	statusCached
	statusFailed
)

var _ progrock.Writer = (*Printer)(nil)

// Printer is a progrock.Writer that prints one line per finished vertex, followed by
// the output the vertex recorded, indented.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	statuses map[string]vertexStatus
	names    map[string]string
	logs     map[string][]byte
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:      out,
		statuses: make(map[string]vertexStatus),
		names:    make(map[string]string),
		logs:     make(map[string][]byte),
	}
}

// WriteStatus processes vertex updates from the recorder.
func (p *Printer) WriteStatus(update *progrock.StatusUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, l := range update.Logs {
		p.logs[l.Vertex] = append(p.logs[l.Vertex], l.Data...)
	}

	for _, v := range update.Vertexes {
		p.names[v.Id] = v.Name
		prev, seen := p.statuses[v.Id]
		if seen && prev != statusRunning {
			continue
		}

		next := statusRunning
		switch {
		case v.Cached:
			next = statusCached
		case v.Completed != nil && v.Error != nil:
			next = statusFailed
		case v.Completed != nil:
			next = statusCompleted
		}
		p.statuses[v.Id] = next

		if next != statusRunning {
			p.print(v, next)
		}
	}
	return nil
}

func (p *Printer) print(v *progrock.Vertex, status vertexStatus) {
	switch status {
	case statusCached:
		_, _ = fmt.Fprintf(p.out, "- %s (cached)\n", v.Name)
	case statusFailed:
		_, _ = fmt.Fprintf(p.out, "x %s: %s\n", v.Name, *v.Error)
	default:
		_, _ = fmt.Fprintf(p.out, "+ %s\n", v.Name)
	}

	for line := range strings.Lines(string(p.logs[v.Id])) {
		_, _ = fmt.Fprintf(p.out, "    %s", line)
	}
	delete(p.logs, v.Id)
}

// Counts returns the number of completed, cached and failed vertices.
func (p *Printer) Counts() (completed, cached, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.statuses {
		switch s {
		case statusCompleted:
			completed++
		case statusCached:
			cached++
		case statusFailed:
			failed++
		}
	}
	return completed, cached, failed
}

// Close implements progrock.Writer.
func (p *Printer) Close() error {
	return nil
}
