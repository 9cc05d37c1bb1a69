package core

// Label is a categorical class value. Labels compare by string equality.
type Label string

// TrainingSet is the labeled reference set. It is built once and only read
// afterwards, so workers may share it without locking.
type TrainingSet struct {
	features *Matrix
	labels   []Label
	classes  []Label
}

// NewTrainingSet pairs feature rows with labels. The labels are copied; the
// matrix is kept as is and must not be modified by the caller afterwards.
func NewTrainingSet(features *Matrix, labels []Label) (*TrainingSet, error) {
	const op = "core.NewTrainingSet"
	if features == nil || features.Rows() == 0 {
		return nil, WrapError(op, ErrEmptyTrainingSet)
	}
	if err := features.CheckShape(); err != nil {
		return nil, err
	}
	if features.Rows() != len(labels) {
		return nil, Errorf(op, ErrLabelCount, "%d rows, %d labels", features.Rows(), len(labels))
	}

	seen := make(map[Label]struct{})
	var classes []Label
	for _, l := range labels {
		if _, ok := seen[l]; !ok {
			seen[l] = struct{}{}
			classes = append(classes, l)
		}
	}

	return &TrainingSet{
		features: features,
		labels:   append([]Label(nil), labels...),
		classes:  classes,
	}, nil
}

// Len returns N.
func (t *TrainingSet) Len() int { return len(t.labels) }

// Dim returns D.
func (t *TrainingSet) Dim() int { return t.features.Dim() }

// Point returns the feature vector and label at index i.
func (t *TrainingSet) Point(i int) ([]float64, Label) {
	return t.features.Row(i), t.labels[i]
}

// Label returns the label at index i.
func (t *TrainingSet) Label(i int) Label { return t.labels[i] }

// Classes returns the distinct labels in order of first appearance.
func (t *TrainingSet) Classes() []Label {
	return append([]Label(nil), t.classes...)
}

// CheckQuery reports ErrDimensionMismatch when q does not have D values.
func (t *TrainingSet) CheckQuery(q []float64) error {
	if len(q) != t.Dim() {
		return Errorf("core.CheckQuery", ErrDimensionMismatch, "query has %d values, training set has %d", len(q), t.Dim())
	}
	return nil
}

// CheckQueries validates a whole query batch before any distance is
// computed. An empty batch is always valid.
func (t *TrainingSet) CheckQueries(queries *Matrix) error {
	if queries == nil {
		return nil
	}
	if err := queries.CheckShape(); err != nil {
		return err
	}
	if queries.Rows() == 0 {
		return nil
	}
	if queries.Dim() != t.Dim() {
		return Errorf("core.CheckQueries", ErrDimensionMismatch, "queries have %d values, training set has %d", queries.Dim(), t.Dim())
	}
	return nil
}
