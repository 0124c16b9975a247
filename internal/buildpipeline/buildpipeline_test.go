package buildpipeline

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	assert.False(t, tm.Has(StageEmit))
	tm.Add(StageEmit, 2*time.Millisecond)
	tm.Add(StageEmit, 3*time.Millisecond)
	tm.Add(StageRead, time.Millisecond)
	assert.True(t, tm.Has(StageEmit))
	assert.Equal(t, 5*time.Millisecond, tm.Duration(StageEmit))
	assert.Equal(t, 6*time.Millisecond, tm.Sum())
	assert.Equal(t, time.Millisecond, tm.Sum(StageRead, StageWrite))
}

func TestQueuedAndReport(t *testing.T) {
	var rec RecordingSink
	Queued(&rec, []string{"a.pli", "b.pli"})
	boom := errors.New("boom")
	Report(&rec, "a.pli", StageWrite, StatusError, boom, time.Second)
	Queued(nil, []string{"x"})
	Report(nil, "x", StageRead, StatusDone, nil, 0)

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, StatusQueued, events[1].Status)
	assert.Equal(t, "b.pli", events[1].File)
	assert.ErrorIs(t, events[2].Err, boom)
	assert.Equal(t, StageWrite, events[2].Stage)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "a"})
	assert.Equal(t, "a", (<-ch).File)
	ChannelSink{}.OnEvent(Event{File: "dropped"})
}

func TestDisplayFiles(t *testing.T) {
	base := t.TempDir()
	got := DisplayFiles([]string{
		filepath.Join(base, "plans", "b.pli"),
		filepath.Join(base, "a.pli"),
		filepath.Join(base, "a.pli"),
		"",
	}, base)
	assert.Equal(t, []string{"a.pli", "plans/b.pli"}, got)
}
