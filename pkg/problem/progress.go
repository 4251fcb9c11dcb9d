package problem

import (
	"sync"
	"time"
)

// ProgressTracker accumulates per-evaluation timing for progress and ETA
// reporting. It smooths the per-sample duration with an exponential moving
// average (0.9 old / 0.1 new) and resets its pass counters every time a
// full population's worth of evaluations has completed. It is purely
// observational and never influences evaluation order or outcome.
type ProgressTracker struct {
	mu             sync.Mutex
	passSize       int
	sampleEMA      time.Duration
	elapsed        time.Duration
	completed      int
	totalCompleted int
}

// Progress is the tracker's view after one recording, taken before any
// pass reset so a completed pass still reports its full counts.
type Progress struct {
	Completed int
	PassSize  int
	SampleEMA time.Duration
	Elapsed   time.Duration
	Remaining time.Duration
	PassDone  bool
}

// NewProgressTracker sizes the tracker for passSize evaluations per
// population pass.
func NewProgressTracker(passSize int) *ProgressTracker {
	return &ProgressTracker{passSize: passSize}
}

// Record folds one evaluation duration into the tracker and returns the
// resulting progress snapshot. When the recording completes a pass the
// per-pass counters reset to zero for the next population.
func (t *ProgressTracker) Record(d time.Duration) Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sampleEMA == 0 {
		t.sampleEMA = d
	} else {
		t.sampleEMA = time.Duration(float64(t.sampleEMA)*0.9 + float64(d)*0.1)
	}
	t.completed++
	t.elapsed += d

	p := Progress{
		Completed: t.completed,
		PassSize:  t.passSize,
		SampleEMA: t.sampleEMA,
		Elapsed:   t.elapsed,
		Remaining: t.sampleEMA * time.Duration(t.passSize-t.completed),
	}

	if t.completed >= t.passSize {
		p.PassDone = true
		t.totalCompleted += t.completed
		t.completed = 0
		t.elapsed = 0
	}
	return p
}

// Reset clears the per-pass counters without touching the sample average.
func (t *ProgressTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = 0
	t.elapsed = 0
}

// ETA estimates the time remaining in the current pass.
func (t *ProgressTracker) ETA() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sampleEMA * time.Duration(t.passSize-t.completed)
}

// Elapsed returns the accumulated evaluation time of the current pass.
func (t *ProgressTracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed
}

// TotalCompleted returns the number of evaluations across finished passes.
func (t *ProgressTracker) TotalCompleted() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCompleted
}
