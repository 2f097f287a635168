package drawer

import (
	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between two consecutive steps.
	AddLink(parentStepName, childStepName string) error
	// AddMeasure annotates the steps with the measure collected while running.
	AddMeasure(measure measure.Measure) error
	// Draw writes the pipeline graph.
	Draw() error
}
