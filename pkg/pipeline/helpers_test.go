package pipeline_test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type apiResponse struct {
	code int
}

func (*apiResponse) TerminalResponse() {}

type user struct {
	FirstName string
	LastName  string
}

// counted wraps fn and counts its invocations.
func counted(calls *atomic.Int32, fn func(in any) (any, error)) func(context.Context, any) (any, error) {
	return func(_ context.Context, in any) (any, error) {
		calls.Add(1)

		return fn(in)
	}
}

func addFirstName(in any) (any, error) {
	u := *in.(*user)
	u.FirstName = "Jane"

	return &u, nil
}

func addLastName(in any) (any, error) {
	u := *in.(*user)
	u.LastName = "Doe"

	return &u, nil
}

type stepEvent struct {
	name    string
	outcome model.Outcome
	err     error
}

// recorder is a pipeline option remembering what it observed.
type recorder struct {
	model.BaseOption
	mu       sync.Mutex
	steps    []*model.StepInfo
	events   []stepEvent
	runs     []model.Outcome
	runErrs  []error
	finished int
	newErr   error
}

func (r *recorder) New(steps []*model.StepInfo) error {
	r.steps = steps

	return r.newErr
}

func (r *recorder) OnStepOutput(_ context.Context, step *model.StepInfo, outcome model.Outcome, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, stepEvent{name: step.Name, outcome: outcome, err: err})
}

func (r *recorder) AfterRun(_ context.Context, outcome model.Outcome, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, outcome)
	r.runErrs = append(r.runErrs, err)
}

func (r *recorder) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++

	return nil
}
