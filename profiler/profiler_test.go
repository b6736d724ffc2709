package profiler

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecord(t *testing.T) {
	tr := New(Options{})

	tr.Record(OpCycle, 2*time.Millisecond)
	tr.Record(OpCycle, 4*time.Millisecond)
	tr.Record(OpCycle, 6*time.Millisecond)

	s, ok := tr.Timing(OpCycle)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 4*time.Millisecond, s.Avg)
	assert.Equal(t, 2*time.Millisecond, s.Min)
	assert.Equal(t, 6*time.Millisecond, s.Max)

	_, ok = tr.Timing(OpInference)
	assert.False(t, ok)
}

func TestTrackerRollingWindow(t *testing.T) {
	tr := New(Options{MaxSamples: 2})

	tr.Record(OpInference, 10*time.Millisecond)
	tr.Record(OpInference, 2*time.Millisecond)
	tr.Record(OpInference, 4*time.Millisecond)

	s, ok := tr.Timing(OpInference)
	require.True(t, ok)
	assert.Equal(t, int64(3), s.Count)
	assert.Equal(t, 3*time.Millisecond, s.Avg)
	assert.Equal(t, 10*time.Millisecond, s.Max)
}

func TestTrackerStartOperation(t *testing.T) {
	tr := New(Options{})
	done := tr.StartOperation(OpCapture)
	time.Sleep(time.Millisecond)
	done()

	s, ok := tr.Timing(OpCapture)
	require.True(t, ok)
	assert.Equal(t, int64(1), s.Count)
	assert.GreaterOrEqual(t, s.Min, time.Millisecond)
}

func TestTrackerReport(t *testing.T) {
	tr := New(Options{})
	tr.Record(OpExtract, time.Millisecond)
	tr.Record(OpCycle, time.Millisecond)

	var buf bytes.Buffer
	tr.Report(zerolog.New(&buf))

	out := buf.String()
	assert.Contains(t, out, `"operation":"cycle"`)
	assert.Contains(t, out, `"operation":"extract"`)
	assert.Contains(t, out, "Runtime status")

	timings := tr.Timings()
	require.Len(t, timings, 2)
	assert.Equal(t, OpCycle, timings[0].Name)
}
