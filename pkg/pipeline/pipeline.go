// Package pipeline turns a labeled CSV into the inputs of a classification
// run: a training set, a query batch and the ground truth for that batch.
package pipeline

import (
	"fmt"

	"parknn/pkg/core"
	"parknn/pkg/data"
	"parknn/pkg/loader"
	"parknn/pkg/stats"
)

// Transformer is a fit/transform preprocessing step.
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) [][]float64
}

// Pipeline chains transformers.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

// FitTransform fits every step on the output of the previous one.
func (p *Pipeline) FitTransform(X [][]float64) ([][]float64, error) {
	for _, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return nil, err
		}
		X = step.Transform(X)
	}
	return X, nil
}

// Options controls Prepare.
type Options struct {
	LabelColumn string
	TestRatio   float64
	Seed        int64
	Scale       bool
}

// Prepared is everything the classifier consumes plus the labels the
// reporter compares against.
type Prepared struct {
	Header  []string
	Train   *core.TrainingSet
	Queries *core.Matrix
	Truth   []core.Label
}

// Prepare loads path, scales all features when asked and splits them into
// training and query sets.
func Prepare(path string, opts Options) (*Prepared, error) {
	ds, err := data.LoadCSV(path, opts.LabelColumn)
	if err != nil {
		return nil, err
	}
	return FromDataset(ds, opts)
}

// FromDataset runs the scale and split steps of Prepare on a loaded table.
func FromDataset(ds *data.Dataset, opts Options) (*Prepared, error) {
	X := ds.Features
	if opts.Scale {
		var err error
		if X, err = NewPipeline(stats.NewStandardScaler()).FitTransform(X); err != nil {
			return nil, err
		}
	}

	split, err := loader.TrainTestSplit(X, ds.Labels, opts.TestRatio, opts.Seed)
	if err != nil {
		return nil, err
	}

	train, err := core.FromRows(split.XTrain)
	if err != nil {
		return nil, fmt.Errorf("training features: %w", err)
	}
	ts, err := core.NewTrainingSet(train, split.YTrain)
	if err != nil {
		return nil, err
	}
	queries, err := core.FromRows(split.XTest)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}

	return &Prepared{
		Header:  ds.Header,
		Train:   ts,
		Queries: queries,
		Truth:   split.YTest,
	}, nil
}
