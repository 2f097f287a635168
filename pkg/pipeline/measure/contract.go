package measure

import (
	"time"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

// Measure collects one Metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the durations and outcomes of one step.
type Metric interface {
	AddDuration(elapsed time.Duration)
	AddOutcome(outcome model.Outcome)
	AVGDuration() time.Duration
	Count(outcome model.Outcome) int64
	Total() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
