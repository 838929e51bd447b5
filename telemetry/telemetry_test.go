package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFromContextDefaultsToNoop(t *testing.T) {
	collector := FromContext(context.Background())

	// Must not panic and must produce no output.
	timer := collector.Start("anything")
	timer.Child("nested").End()
	timer.End()

	var buf strings.Builder
	collector.Report(&buf)
	assert.Equal(t, "", buf.String())
}

func TestWithCollectorRoundTrip(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	assert.Equal[Collector](t, collector, FromContext(ctx))
}

func TestTimingCollectorReport(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("projection")
	load := root.Child("load payments")
	load.End()
	emit := root.Child("emit transactions")
	emit.End()
	root.End()

	var buf strings.Builder
	collector.Report(&buf)
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "projection: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ load payments: "))
	assert.True(t, strings.HasPrefix(lines[2], "└─ emit transactions: "))
}

func TestTimingCollectorNesting(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("root")
	// Start after the root nests under it even without Child.
	inner := collector.Start("inner")
	inner.End()
	root.End()

	var buf strings.Builder
	collector.Report(&buf)
	assert.True(t, strings.Contains(buf.String(), "└─ inner"))
}

func TestEmptyCollectorReportsNothing(t *testing.T) {
	var buf strings.Builder
	NewTimingCollector().Report(&buf)
	assert.Equal(t, "", buf.String())
}
