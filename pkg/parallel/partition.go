// Package parallel splits a query batch into contiguous partitions and
// classifies them on a fixed set of workers.
package parallel

import (
	"parknn/pkg/core"
)

// Range is the half-open row interval [Start, End) of one partition.
type Range struct {
	Start, End int
}

// Len returns the number of rows covered.
func (r Range) Len() int { return r.End - r.Start }

// Partition divides m rows into p contiguous ranges. The first p-1 ranges
// hold m/p rows each and the last one takes the remainder, so 7 rows over 3
// partitions gives sizes [2 2 3]. When m < p the leading ranges are empty.
func Partition(m, p int) ([]Range, error) {
	if p <= 0 {
		return nil, core.Errorf("parallel.Partition", core.ErrInvalidPartitionCount, "p=%d", p)
	}
	if m < 0 {
		m = 0
	}

	size := m / p
	out := make([]Range, p)
	for i := range out {
		start := i * size
		end := start + size
		if i == p-1 {
			end = m
		}
		out[i] = Range{Start: start, End: end}
	}
	return out, nil
}

// Split returns the row views of batch for each range of Partition. The
// views share storage with batch.
func Split(batch *core.Matrix, p int) ([]*core.Matrix, []Range, error) {
	rows := 0
	if batch != nil {
		if err := batch.CheckShape(); err != nil {
			return nil, nil, err
		}
		rows = batch.Rows()
	}
	ranges, err := Partition(rows, p)
	if err != nil {
		return nil, nil, err
	}

	parts := make([]*core.Matrix, len(ranges))
	for i, r := range ranges {
		if batch == nil {
			parts[i] = &core.Matrix{}
			continue
		}
		parts[i] = batch.Slice(r.Start, r.End)
	}
	return parts, ranges, nil
}
