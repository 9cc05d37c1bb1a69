package model

import (
	"errors"

	"parknn/pkg/core"
	"parknn/pkg/distance"
)

// ErrNotFitted is returned when predicting before Fit.
var ErrNotFitted = errors.New("knn: model not fitted")

// DefaultK is the neighbor count used when no option overrides it.
const DefaultK = 5

// KNN classifies by majority vote among the K nearest training points.
// After Fit it is read-only and safe for concurrent use.
type KNN struct {
	K      int
	Metric distance.Metric

	train *core.TrainingSet
}

// Option functional config
type Option func(*KNN)

func WithK(k int) Option { return func(m *KNN) { m.K = k } }

func WithMetric(d distance.Metric) Option { return func(m *KNN) { m.Metric = d } }

// NewKNN creates a model with K=5 and Euclidean distance unless overridden.
func NewKNN(opts ...Option) *KNN {
	m := &KNN{K: DefaultK, Metric: distance.Euclidean}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Fit stores the training set. KNN is lazy, so this only validates K
// against the training set size.
func (m *KNN) Fit(t *core.TrainingSet) error {
	if t == nil || t.Len() == 0 {
		return core.WrapError("knn.Fit", core.ErrEmptyTrainingSet)
	}
	if err := checkK(m.K, t.Len()); err != nil {
		return err
	}
	m.train = t
	return nil
}

// TrainingSet returns the fitted reference set, or nil.
func (m *KNN) TrainingSet() *core.TrainingSet { return m.train }

func checkK(k, n int) error {
	if k <= 0 || k > n {
		return core.Errorf("knn", core.ErrInvalidK, "k=%d, N=%d", k, n)
	}
	return nil
}

func (m *KNN) ready() error {
	if m.train == nil {
		return ErrNotFitted
	}
	return checkK(m.K, m.train.Len())
}

// Neighbors returns the K training points closest to q, ordered by
// ascending distance. Equal distances keep training-set order.
func (m *KNN) Neighbors(q []float64) ([]Neighbor, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}
	if err := m.train.CheckQuery(q); err != nil {
		return nil, err
	}
	return m.nearest(q, make([]Neighbor, 0, m.K))
}

// nearest scans the whole training set keeping a sorted window of the best
// K so far. A candidate only displaces an entry with a strictly larger
// distance, which keeps the earlier index ahead on ties.
func (m *KNN) nearest(q []float64, nbrs []Neighbor) ([]Neighbor, error) {
	nbrs = nbrs[:0]
	for j := 0; j < m.train.Len(); j++ {
		xj, label := m.train.Point(j)
		d, err := distance.Between(m.Metric, q, xj)
		if err != nil {
			return nil, err
		}

		if len(nbrs) < m.K {
			nbrs = append(nbrs, Neighbor{})
		} else if d >= nbrs[len(nbrs)-1].Distance {
			continue
		}

		// shift larger entries right and drop the candidate in place
		pos := len(nbrs) - 1
		for pos > 0 && nbrs[pos-1].Distance > d {
			nbrs[pos] = nbrs[pos-1]
			pos--
		}
		nbrs[pos] = Neighbor{Index: j, Distance: d, Label: label}
	}
	return nbrs, nil
}

// Predict returns the majority label among the K nearest neighbors of q.
func (m *KNN) Predict(q []float64) (core.Label, error) {
	nbrs, err := m.Neighbors(q)
	if err != nil {
		return "", err
	}
	return VoteNeighbors(nbrs)
}

// PredictBatch predicts every row of queries. The batch is validated up
// front so that a malformed query fails before any distance is computed.
func (m *KNN) PredictBatch(queries *core.Matrix) ([]core.Label, error) {
	if err := m.Validate(queries); err != nil {
		return nil, err
	}
	if queries == nil || queries.Rows() == 0 {
		return []core.Label{}, nil
	}

	out := make([]core.Label, queries.Rows())
	buf := make([]Neighbor, 0, m.K)
	for i := range out {
		var err error
		if buf, err = m.nearest(queries.Row(i), buf); err != nil {
			return nil, err
		}
		label, err := VoteNeighbors(buf)
		if err != nil {
			return nil, err
		}
		out[i] = label
	}
	return out, nil
}

// Validate reports whether queries can be classified by this model without
// computing anything.
func (m *KNN) Validate(queries *core.Matrix) error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.train.CheckQueries(queries)
}
