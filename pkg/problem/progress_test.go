package problem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTrackerFirstSampleSeedsEMA(t *testing.T) {
	tracker := NewProgressTracker(4)
	p := tracker.Record(2 * time.Second)
	assert.Equal(t, 2*time.Second, p.SampleEMA)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 6*time.Second, p.Remaining)
}

func TestProgressTrackerEMASmoothing(t *testing.T) {
	tracker := NewProgressTracker(10)
	tracker.Record(1 * time.Second)
	p := tracker.Record(2 * time.Second)
	// 0.9 * 1s + 0.1 * 2s
	assert.Equal(t, 1100*time.Millisecond, p.SampleEMA)
}

func TestProgressTrackerPassReset(t *testing.T) {
	tracker := NewProgressTracker(2)
	first := tracker.Record(time.Second)
	assert.False(t, first.PassDone)

	second := tracker.Record(time.Second)
	assert.True(t, second.PassDone)
	assert.Equal(t, 2, second.Completed)
	assert.Equal(t, 2*time.Second, second.Elapsed)

	// Counters restart for the next pass while the EMA carries over.
	third := tracker.Record(time.Second)
	assert.Equal(t, 1, third.Completed)
	assert.Equal(t, time.Second, third.Elapsed)
	assert.Equal(t, 2, tracker.TotalCompleted())
}

func TestProgressTrackerElapsedMonotonicWithinPass(t *testing.T) {
	tracker := NewProgressTracker(5)
	var last time.Duration
	for i := 0; i < 4; i++ {
		p := tracker.Record(time.Second)
		assert.Greater(t, p.Elapsed, last)
		last = p.Elapsed
	}
}

func TestProgressTrackerReset(t *testing.T) {
	tracker := NewProgressTracker(3)
	tracker.Record(time.Second)
	tracker.Reset()
	p := tracker.Record(time.Second)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, time.Second, p.Elapsed)
}
