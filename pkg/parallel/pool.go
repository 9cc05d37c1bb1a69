package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"parknn/pkg/core"
	"parknn/pkg/model"
)

// ErrPoolClosed is returned when a closed pool is asked to run.
var ErrPoolClosed = errors.New("parallel: pool closed")

// WorkerError reports the partition whose worker failed.
type WorkerError struct {
	Partition int
	Range     Range
	Err       error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("parallel: worker %d [%d,%d): %v", e.Partition, e.Range.Start, e.Range.End, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// validator is implemented by classifiers that can reject a batch before
// any work is dispatched.
type validator interface {
	Validate(queries *core.Matrix) error
}

// Pool is a caller-owned set of worker slots. One run assigns exactly one
// partition to each slot; there is no work stealing.
type Pool struct {
	size int

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with size slots. size <= 0 uses GOMAXPROCS.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{size: size}
}

// Size returns the number of worker slots, which is also the partition
// count used by PredictBatch.
func (p *Pool) Size() int { return p.size }

// Close releases the pool. Further runs fail with ErrPoolClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// PredictBatch partitions queries into Size() ranges, classifies each range
// on its own worker and concatenates the results in partition order. The
// output is identical to clf.PredictBatch(queries). Any worker failure fails
// the whole run and no predictions are returned.
func (p *Pool) PredictBatch(ctx context.Context, clf model.Classifier, queries *core.Matrix) ([]core.Label, error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}
	if v, ok := clf.(validator); ok {
		if err := v.Validate(queries); err != nil {
			return nil, err
		}
	}

	parts, ranges, err := Split(queries, p.size)
	if err != nil {
		return nil, err
	}

	results := make([][]core.Label, len(parts))
	errs := make([]error, len(parts))

	// Every partition runs to completion even after a failure, so the
	// reported error does not depend on scheduling.
	var g errgroup.Group
	g.SetLimit(p.size)
	for i := range parts {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := clf.PredictBatch(parts[i])
			if err == nil && len(res) != ranges[i].Len() {
				err = fmt.Errorf("got %d predictions for %d queries", len(res), ranges[i].Len())
			}
			if err != nil {
				errs[i] = &WorkerError{Partition: i, Range: ranges[i], Err: err}
				return errs[i]
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	// lowest failing partition wins so failures are reproducible
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := 0
	if queries != nil {
		n = queries.Rows()
	}
	out := make([]core.Label, 0, n)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
