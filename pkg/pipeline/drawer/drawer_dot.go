package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-interceptor/internal/store"
	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

// DOTDrawer renders the pipeline as a Graphviz DOT graph.
type DOTDrawer struct {
	graph  graph.Graph[string, string]
	store  *store.OrderedStore[string, string]
	output func() (io.WriteCloser, error)
}

// NewDOTDrawer creates a drawer writing to fileName.
func NewDOTDrawer(fileName string) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		file, err := os.Create(fileName)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to create file %s", fileName)
		}

		return file, nil
	})
}

// NewDOTWriterDrawer creates a drawer writing to wrt.
func NewDOTWriterDrawer(wrt io.Writer) *DOTDrawer {
	return newDOTDrawer(func() (io.WriteCloser, error) {
		return nopCloser{wrt}, nil
	})
}

func newDOTDrawer(output func() (io.WriteCloser, error)) *DOTDrawer {
	st := store.NewOrderedStore[string, string]()

	return &DOTDrawer{
		graph:  graph.NewWithStore(graph.StringHash, graph.Store[string, string](st), graph.Directed()),
		store:  st,
		output: output,
	}
}

// AddStep adds a step to the pipeline graph.
func (d *DOTDrawer) AddStep(name string) error {
	err := d.graph.AddVertex(name, graph.VertexAttribute("shape", shapeOf(name)))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	return nil
}

// AddLink adds a link between two consecutive steps.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

const maxRGB = 240

// AddMeasure labels every step with its average duration and outcome counters,
// and colours its incoming edge from blue (fastest step) to red (slowest step).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()

	var minAvg, maxAvg time.Duration

	first := true

	for name, mt := range metrics {
		if name == model.StartStep.Name || name == model.EndStep.Name {
			continue
		}

		avg := mt.AVGDuration()
		if first || avg < minAvg {
			minAvg = avg
		}

		if first || avg > maxAvg {
			maxAvg = avg
		}

		first = false
	}

	edges, err := d.store.ListEdges()
	if err != nil {
		return errors.Wrap(err, "unable to list edges")
	}

	for _, edge := range edges {
		mt, ok := metrics[edge.Target]
		if !ok {
			continue
		}

		_, properties, err := d.graph.VertexWithProperties(edge.Target)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		properties.Attributes["xlabel"] = describe(edge.Target, mt)

		if edge.Target == model.EndStep.Name {
			continue
		}

		colour, err := edgeColour(mt.AVGDuration(), minAvg, maxAvg)
		if err != nil {
			return err
		}

		err = d.graph.UpdateEdge(edge.Source, edge.Target,
			graph.EdgeAttribute("label", mt.AVGDuration().String()),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return nil
}

// Draw writes the pipeline graph.
func (d *DOTDrawer) Draw() error {
	wrt, err := d.output()
	if err != nil {
		return err
	}
	defer wrt.Close()

	err = d.render(wrt)
	if err != nil {
		return errors.Wrap(err, "unable to render pipeline")
	}

	return nil
}

func describe(name string, mt measure.Metric) string {
	parts := []string{}

	if name == model.EndStep.Name {
		parts = append(parts, fmt.Sprintf("runs=%d", mt.Total()), "max="+mt.GetTotalDuration().String())
	} else if avg := mt.AVGDuration(); avg > 0 {
		parts = append(parts, "avg="+avg.String())
	}

	for _, outcome := range []model.Outcome{
		model.OutcomeOK, model.OutcomeFailed, model.OutcomeTerminal, model.OutcomeFalsy, model.OutcomeSkipped,
	} {
		if c := mt.Count(outcome); c > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", outcome, c))
		}
	}

	return strings.Join(parts, " ")
}

func edgeColour(avg, minAvg, maxAvg time.Duration) (string, error) {
	fraction := 1.0
	if maxAvg > minAvg {
		fraction = float64(avg-minAvg) / float64(maxAvg-minAvg)
	}

	red := maxRGB * fraction
	blue := maxRGB - red

	rgb, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return rgb.ToHEX().String(), nil
}

func shapeOf(name string) string {
	if name == model.StartStep.Name || name == model.EndStep.Name {
		return "circle"
	}

	return "box"
}

const dotTemplate = `digraph pipeline {
	rankdir="LR";
{{- range .Vertices}}
	{{printf "%q" .Name}} [{{.Attributes}}];
{{- end}}
{{- range .Edges}}
	{{printf "%q" .Source}} -> {{printf "%q" .Target}} [{{.Attributes}}];
{{- end}}
}
`

type vertexStatement struct {
	Name       string
	Attributes string
}

type edgeStatement struct {
	Source     string
	Target     string
	Attributes string
}

func (d *DOTDrawer) render(wrt io.Writer) error {
	vertices, err := d.store.ListVertices()
	if err != nil {
		return errors.Wrap(err, "unable to list vertices")
	}

	desc := struct {
		Vertices []vertexStatement
		Edges    []edgeStatement
	}{}

	for _, name := range vertices {
		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		desc.Vertices = append(desc.Vertices, vertexStatement{Name: name, Attributes: attributes(properties.Attributes)})
	}

	edges, err := d.store.ListEdges()
	if err != nil {
		return errors.Wrap(err, "unable to list edges")
	}

	for _, edge := range edges {
		desc.Edges = append(desc.Edges, edgeStatement{
			Source:     edge.Source,
			Target:     edge.Target,
			Attributes: attributes(edge.Properties.Attributes),
		})
	}

	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

// attributes renders DOT attributes sorted by key.
func attributes(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	res := make([]string, len(keys))
	for i, k := range keys {
		res[i] = fmt.Sprintf("%s=%q", k, attrs[k])
	}

	return strings.Join(res, ", ")
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

var _ Drawer = (*DOTDrawer)(nil)
