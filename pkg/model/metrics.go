package model

import (
	"fmt"
	"sort"

	"parknn/pkg/core"
)

// Accuracy is the fraction of predictions equal to the ground truth. The two
// slices must be index-aligned.
func Accuracy(yTrue, yPred []core.Label) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("accuracy: %d labels vs %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, nil
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue)), nil
}

// LabelCount is one row of a label frequency table.
type LabelCount struct {
	Label core.Label
	Count int
}

// Distribution counts labels, most frequent first. Equal counts keep the
// order in which the labels first appeared.
func Distribution(labels []core.Label) []LabelCount {
	index := make(map[core.Label]int)
	var out []LabelCount
	for _, l := range labels {
		i, ok := index[l]
		if !ok {
			i = len(out)
			index[l] = i
			out = append(out, LabelCount{Label: l})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}

// MostCommon returns the first n entries of Distribution. n <= 0 returns all.
func MostCommon(labels []core.Label, n int) []LabelCount {
	d := Distribution(labels)
	if n > 0 && n < len(d) {
		d = d[:n]
	}
	return d
}
