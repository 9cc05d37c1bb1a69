package parallel

import (
	"context"
	"errors"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parknn/pkg/core"
	"parknn/pkg/model"
)

func randomMatrix(rnd *rand.Rand, n, d int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, d)
		for j := range rows[i] {
			rows[i][j] = float64(rnd.Intn(6)) + rnd.Float64()/4
		}
	}
	return rows
}

func fittedKNN(t *testing.T, seed int64, n, d, k int) *model.KNN {
	t.Helper()
	rnd := rand.New(rand.NewSource(seed))
	classes := []core.Label{"rice", "maize", "cotton", "coffee", "jute"}
	labels := make([]core.Label, n)
	for i := range labels {
		labels[i] = classes[rnd.Intn(len(classes))]
	}
	ts, err := core.NewTrainingSet(core.MustFromRows(randomMatrix(rnd, n, d)), labels)
	require.NoError(t, err)

	m := model.NewKNN(model.WithK(k))
	require.NoError(t, m.Fit(ts))
	return m
}

func TestPool_MatchesSerial(t *testing.T) {
	clf := fittedKNN(t, 1, 300, 7, 5)
	queries := core.MustFromRows(randomMatrix(rand.New(rand.NewSource(2)), 101, 7))

	serial, err := clf.PredictBatch(queries)
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 3, 4, 8, 101, 150} {
		pool := NewPool(workers)
		got, err := pool.PredictBatch(context.Background(), clf, queries)
		require.NoError(t, err)
		assert.Equal(t, serial, got, "workers=%d", workers)
		require.NoError(t, pool.Close())
	}
}

func TestPool_EmptyBatch(t *testing.T) {
	clf := fittedKNN(t, 3, 10, 2, 3)
	pool := NewPool(4)
	defer pool.Close()

	got, err := pool.PredictBatch(context.Background(), clf, &core.Matrix{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPool_DefaultSize(t *testing.T) {
	assert.Positive(t, NewPool(0).Size())
	assert.Equal(t, 3, NewPool(3).Size())
}

func TestPool_DimensionMismatchBeforeDispatch(t *testing.T) {
	clf := fittedKNN(t, 4, 20, 4, 3)
	queries := core.MustFromRows(randomMatrix(rand.New(rand.NewSource(5)), 9, 5))

	counting := &countingClassifier{inner: clf}
	pool := NewPool(3)
	defer pool.Close()

	// countingClassifier has no Validate, so every worker sees the error
	got, err := pool.PredictBatch(context.Background(), counting, queries)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	var werr *WorkerError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, int32(3), counting.calls.Load())

	// the KNN validates up front: no worker runs at all
	got, err = pool.PredictBatch(context.Background(), clf, queries)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	assert.False(t, errors.As(err, &werr))
}

func TestPool_LowestFailingPartitionReported(t *testing.T) {
	rows := make([][]float64, 12)
	for i := range rows {
		rows[i] = []float64{float64(i), 0}
	}
	queries := core.MustFromRows(rows)
	boom := errors.New("boom")
	clf := &failingClassifier{failFrom: 4, err: boom}

	pool := NewPool(4)
	defer pool.Close()

	for i := 0; i < 20; i++ {
		_, err := pool.PredictBatch(context.Background(), clf, queries)
		require.Error(t, err)
		var werr *WorkerError
		require.True(t, errors.As(err, &werr))
		assert.ErrorIs(t, err, boom)
		// partitions are [0,3) [3,6) [6,9) [9,12); rows >= 4 fail
		assert.Equal(t, 1, werr.Partition)
		assert.Equal(t, Range{Start: 3, End: 6}, werr.Range)
	}
}

func TestPool_ShortResultIsFailure(t *testing.T) {
	queries := core.MustFromRows(randomMatrix(rand.New(rand.NewSource(8)), 6, 2))
	pool := NewPool(2)
	defer pool.Close()

	_, err := pool.PredictBatch(context.Background(), shortClassifier{}, queries)
	var werr *WorkerError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, 0, werr.Partition)
}

func TestPool_Closed(t *testing.T) {
	pool := NewPool(2)
	require.NoError(t, pool.Close())
	_, err := pool.PredictBatch(context.Background(), fittedKNN(t, 9, 5, 2, 1), &core.Matrix{})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPool_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(2)
	defer pool.Close()
	_, err := pool.PredictBatch(ctx, fittedKNN(t, 10, 5, 2, 1), core.MustFromRows([][]float64{{1, 1}, {2, 2}}))
	assert.ErrorIs(t, err, context.Canceled)
}

type countingClassifier struct {
	inner *model.KNN
	calls atomic.Int32
}

func (c *countingClassifier) PredictBatch(q *core.Matrix) ([]core.Label, error) {
	c.calls.Add(1)
	return c.inner.PredictBatch(q)
}

// failingClassifier fails any batch containing a row whose first value is a
// global index >= failFrom. Rows are encoded so that row i starts with i.
type failingClassifier struct {
	failFrom int
	err      error
}

func (f *failingClassifier) PredictBatch(q *core.Matrix) ([]core.Label, error) {
	out := make([]core.Label, q.Rows())
	for i := range out {
		if int(q.Row(i)[0]) >= f.failFrom {
			return nil, f.err
		}
		out[i] = "ok"
	}
	return out, nil
}

type shortClassifier struct{}

func (shortClassifier) PredictBatch(q *core.Matrix) ([]core.Label, error) {
	return []core.Label{}, nil
}
