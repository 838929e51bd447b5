// Package telemetry provides hierarchical timing of operations, carried
// through context so instrumentation never changes function signatures.
// When no collector is attached, every call is a no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx = telemetry.WithCollector(ctx, collector)
//
//	timer := telemetry.FromContext(ctx).Start("projection")
//	defer timer.End()
//
//	collector.Report(os.Stderr)
package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector accumulates timed operations.
type Collector interface {
	// Start begins timing an operation; end it with Timer.End.
	Start(name string) Timer

	// Report writes the collected timings to w.
	Report(w io.Writer)
}

// Timer tracks one operation. Timers nest via Child.
type Timer interface {
	End()
	Child(name string) Timer
}

// WithCollector attaches a collector to the context.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, collectorKey, c)
}

// FromContext returns the context's collector, or a no-op collector when
// none is attached.
func FromContext(ctx context.Context) Collector {
	if c, ok := ctx.Value(collectorKey).(Collector); ok {
		return c
	}
	return noopCollector{}
}

type noopCollector struct{}

func (noopCollector) Start(string) Timer { return noopTimer{} }
func (noopCollector) Report(io.Writer)   {}

type noopTimer struct{}

func (noopTimer) End()               {}
func (noopTimer) Child(string) Timer { return noopTimer{} }

// TimingCollector records operations as a tree of wall-clock spans.
type TimingCollector struct {
	mu      sync.Mutex
	root    *span
	current *span
}

type span struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *span
	children []*span
}

// NewTimingCollector creates an empty timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins a span. The first span started becomes the root; later
// top-level spans nest under whichever span is currently open.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := &span{name: name, start: time.Now()}
	if c.root == nil {
		c.root = s
	} else {
		s.parent = c.current
		c.current.children = append(c.current.children, s)
	}
	c.current = s

	return &timingTimer{collector: c, span: s}
}

// Report renders the span tree, one line per span.
func (c *TimingCollector) Report(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}
	writeSpan(w, c.root, "", true, true)
}

func writeSpan(w io.Writer, s *span, prefix string, isRoot, isLast bool) {
	end := s.end
	if end.IsZero() {
		end = time.Now()
	}
	duration := end.Sub(s.start).Round(10 * time.Microsecond)

	if isRoot {
		_, _ = fmt.Fprintf(w, "%s: %s\n", s.name, duration)
	} else {
		branch := "├─ "
		if isLast {
			branch = "└─ "
		}
		_, _ = fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, s.name, duration)
	}

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	for i, child := range s.children {
		writeSpan(w, child, childPrefix, false, i == len(s.children)-1)
	}
}

type timingTimer struct {
	collector *TimingCollector
	span      *span
}

// End closes the span and returns the open cursor to its parent.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.span.end = time.Now()
	if t.span.parent != nil {
		t.collector.current = t.span.parent
	}
}

// Child opens a nested span under this one.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	s := &span{name: name, start: time.Now(), parent: t.span}
	t.span.children = append(t.span.children, s)
	return &timingTimer{collector: t.collector, span: s}
}
