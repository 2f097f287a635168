package measure

import (
	"sync"
	"time"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type DefaultMetric struct {
	outcomes    map[string]int64
	mu          sync.Mutex
	endDuration time.Duration
	elapsed     time.Duration
	timed       int64
}

// AddDuration records the computation time of one invocation.
func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.timed++
	mt.elapsed += elapsed
}

func (mt *DefaultMetric) AddOutcome(outcome model.Outcome) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.outcomes[string(outcome)]++
}

func (mt *DefaultMetric) Count(outcome model.Outcome) int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.outcomes[string(outcome)]
}

// Total is the number of recorded outcomes, skipped ones included.
func (mt *DefaultMetric) Total() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var total int64
	for _, c := range mt.outcomes {
		total += c
	}

	return total
}

// SetTotalDuration keeps the longest duration it was given.
func (mt *DefaultMetric) SetTotalDuration(endDuration time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if endDuration > mt.endDuration {
		mt.endDuration = endDuration
	}
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.endDuration
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if mt.timed == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.elapsed) / float64(mt.timed)))
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		d = d.Round(time.Hour)
	case d > time.Minute:
		d = d.Round(time.Minute)
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}

var _ Metric = (*DefaultMetric)(nil)
