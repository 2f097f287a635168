// Package tracing records pipeline runs as OpenTelemetry spans.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

const (
	tracerName = "github.com/askiada/go-interceptor/pkg/pipeline"

	runSpanName = "pipeline.run"

	stepNameKey    = attribute.Key("pipeline.step.name")
	stepIndexKey   = attribute.Key("pipeline.step.index")
	stepCountKey   = attribute.Key("pipeline.steps")
	outcomeKey     = attribute.Key("pipeline.outcome")
	stepSkippedEvt = "step skipped"
)

type pipelineTracer struct {
	model.BaseOption
	tracer trace.Tracer
	steps  int
}

func (pt *pipelineTracer) New(steps []*model.StepInfo) error {
	pt.steps = len(steps)

	return nil
}

func (pt *pipelineTracer) BeforeRun(ctx context.Context) context.Context {
	ctx, _ = pt.tracer.Start(ctx, runSpanName, trace.WithAttributes(stepCountKey.Int(pt.steps)))

	return ctx
}

func (pt *pipelineTracer) BeforeStep(ctx context.Context, step *model.StepInfo) context.Context {
	ctx, _ = pt.tracer.Start(ctx, step.Name, trace.WithAttributes(
		stepNameKey.String(step.Name),
		stepIndexKey.Int(step.Index),
	))

	return ctx
}

// OnStepOutput ends the step span. Skipped steps never got a span, they become events on the run span.
func (pt *pipelineTracer) OnStepOutput(ctx context.Context, step *model.StepInfo, outcome model.Outcome, err error, _ time.Duration) {
	span := trace.SpanFromContext(ctx)

	if outcome == model.OutcomeSkipped {
		span.AddEvent(stepSkippedEvt, trace.WithAttributes(
			stepNameKey.String(step.Name),
			stepIndexKey.Int(step.Index),
		))

		return
	}

	span.SetAttributes(outcomeKey.String(string(outcome)))
	end(span, err)
}

func (pt *pipelineTracer) AfterRun(ctx context.Context, outcome model.Outcome, err error, _ time.Duration) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(outcomeKey.String(string(outcome)))
	end(span, err)
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	span.End()
}

// PipelineTracer traces every run with a span, and every invoked step with a child span.
func PipelineTracer(tp trace.TracerProvider) model.PipelineOption {
	return &pipelineTracer{tracer: tp.Tracer(tracerName)}
}
