package model

import "parknn/pkg/core"

// Classifier predicts labels for a batch of queries. Implementations must
// not mutate shared state so that disjoint batches can run concurrently.
type Classifier interface {
	PredictBatch(queries *core.Matrix) ([]core.Label, error)
}

// Neighbor is one training point ranked against a query.
type Neighbor struct {
	Index    int // position in the training set
	Distance float64
	Label    core.Label
}

// Labels projects out the label of every neighbor, keeping order.
func Labels(nbrs []Neighbor) []core.Label {
	out := make([]core.Label, len(nbrs))
	for i, n := range nbrs {
		out[i] = n.Label
	}
	return out
}
