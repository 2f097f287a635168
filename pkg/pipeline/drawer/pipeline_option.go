package drawer

import (
	"github.com/pkg/errors"

	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

type pipelineDrawer struct {
	model.BaseOption
	Drawer
	m measure.Measure
}

func (pd *pipelineDrawer) New(steps []*model.StepInfo) error {
	err := pd.AddStep(model.StartStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	parent := model.StartStep.Name
	for _, step := range steps {
		err = pd.AddStep(step.Name)
		if err != nil {
			return errors.Wrapf(err, "unable to add step %q to drawer", step.Name)
		}

		err = pd.AddLink(parent, step.Name)
		if err != nil {
			return err
		}

		parent = step.Name
	}

	err = pd.AddStep(model.EndStep.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return pd.AddLink(parent, model.EndStep.Name)
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

// PipelineDrawer draws the pipeline when it finishes. When msr is not nil, it should be the
// measure given to measure.PipelineMeasure, its metrics annotate the graph.
// Step names must be unique.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{Drawer: drawer, m: msr}
}
