package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"parknn/pkg/core"
)

// errNotFinite is returned for NaN and ±Inf feature cells.
var errNotFinite = errors.New("value is not a finite number")

// Dataset is a labeled table read from CSV. Features exclude the label
// column and keep the original column order.
type Dataset struct {
	Header   []string // feature column names
	Features [][]float64
	Labels   []core.Label
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Labels) }

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path, labelCol string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ds, err := ReadCSV(bufio.NewReader(file), labelCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads a CSV table whose first row is a header. labelCol names the
// label column; every other column must parse as a float. Rows that fail to
// parse are reported with their line number rather than skipped, since a
// dropped row would silently shift the train/test split.
func ReadCSV(r io.Reader, labelCol string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	head = append([]string(nil), head...)

	label := -1
	ds := &Dataset{}
	for i, h := range head {
		h = strings.TrimSpace(h)
		if h == labelCol {
			label = i
			continue
		}
		ds.Header = append(ds.Header, h)
	}
	if label < 0 {
		return nil, fmt.Errorf("label column %q not found in header %v", labelCol, head)
	}

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		x := make([]float64, 0, len(rec)-1)
		for i, s := range rec {
			if i == label {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				err = errNotFinite
			}
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, head[i], err)
			}
			x = append(x, v)
		}
		ds.Features = append(ds.Features, x)
		ds.Labels = append(ds.Labels, core.Label(strings.TrimSpace(rec[label])))
	}

	if len(ds.Labels) == 0 {
		return nil, errors.New("csv has no data rows")
	}
	return ds, nil
}
