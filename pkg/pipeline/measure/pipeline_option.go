package measure

import (
	"context"
	"time"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type pipelineMeasure struct {
	Measure
}

func (pm *pipelineMeasure) New(steps []*model.StepInfo) error {
	pm.AddMetric(model.StartStep.Name)

	for _, step := range steps {
		pm.AddMetric(step.Name)
	}

	pm.AddMetric(model.EndStep.Name)

	return nil
}

func (pm *pipelineMeasure) BeforeRun(ctx context.Context) context.Context {
	pm.GetMetric(model.StartStep.Name).AddOutcome(model.OutcomeOK)

	return ctx
}

func (pm *pipelineMeasure) BeforeStep(ctx context.Context, _ *model.StepInfo) context.Context {
	return ctx
}

func (pm *pipelineMeasure) OnStepOutput(_ context.Context, step *model.StepInfo, outcome model.Outcome, _ error, computationDuration time.Duration) {
	mt := pm.GetMetric(step.Name)
	mt.AddOutcome(outcome)

	if outcome != model.OutcomeSkipped {
		mt.AddDuration(computationDuration)
	}
}

func (pm *pipelineMeasure) AfterRun(_ context.Context, outcome model.Outcome, _ error, totalDuration time.Duration) {
	mt := pm.GetMetric(model.EndStep.Name)
	mt.AddOutcome(outcome)
	mt.AddDuration(totalDuration)
	mt.SetTotalDuration(totalDuration)
}

func (pm *pipelineMeasure) Finish() error {
	return nil
}

// PipelineMeasure records every run of a pipeline into measure.
// Steps sharing a name share a metric.
func PipelineMeasure(measure Measure) model.PipelineOption {
	return &pipelineMeasure{measure}
}
