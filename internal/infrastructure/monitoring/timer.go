package monitoring

import "time"

// Timer measures one pipeline step.
type Timer struct {
	metrics *Metrics
	step    string
	start   time.Time
}

// NewTimer starts timing step. A nil metrics makes the timer a no-op.
func NewTimer(metrics *Metrics, step string) *Timer {
	return &Timer{
		metrics: metrics,
		step:    step,
		start:   time.Now(),
	}
}

// Stop records the elapsed time and returns it.
func (t *Timer) Stop(err error, kind string) time.Duration {
	elapsed := time.Since(t.start)
	if t.metrics != nil {
		t.metrics.RecordStep(t.step, elapsed, err, kind)
	}
	return elapsed
}
