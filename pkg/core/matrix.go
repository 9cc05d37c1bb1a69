package core

// Matrix is a dense row-major matrix. Every row is one FeatureVector, so the
// column count is the dimensionality D shared by the whole set.
type Matrix struct {
	R, C int
	Data []float64
}

// NewMatrix allocates a zero matrix.
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromRows copies a nested slice into a Matrix. Every row must have the
// length of the first one.
func FromRows(a [][]float64) (*Matrix, error) {
	r := len(a)
	if r == 0 {
		return &Matrix{}, nil
	}

	c := len(a[0])
	m := NewMatrix(r, c)
	for i, row := range a {
		if len(row) != c {
			return nil, Errorf("core.FromRows", ErrDimensionMismatch, "row %d has %d values, want %d", i, len(row), c)
		}
		copy(m.Data[i*c:(i+1)*c], row)
	}
	return m, nil
}

// MustFromRows is FromRows for literals known to be rectangular.
func MustFromRows(a [][]float64) *Matrix {
	m, err := FromRows(a)
	if err != nil {
		panic(err)
	}
	return m
}

// CheckShape reports ErrDimensionMismatch unless Data holds exactly R*C
// values.
func (m *Matrix) CheckShape() error {
	if m.R < 0 || m.C < 0 || len(m.Data) != m.R*m.C {
		return Errorf("core.Matrix", ErrDimensionMismatch, "%dx%d matrix holds %d values", m.R, m.C, len(m.Data))
	}
	return nil
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// Rows returns the number of vectors held.
func (m *Matrix) Rows() int { return m.R }

// Dim returns the dimensionality of every row.
func (m *Matrix) Dim() int { return m.C }

// Row returns row i as a view into the backing storage. Callers must not
// write through it.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i*m.C : (i+1)*m.C : (i+1)*m.C]
}

// Slice returns rows [lo, hi) as a Matrix sharing storage with m.
func (m *Matrix) Slice(lo, hi int) *Matrix {
	return &Matrix{R: hi - lo, C: m.C, Data: m.Data[lo*m.C : hi*m.C : hi*m.C]}
}
