package loader

import (
	"fmt"
	"math"
	"math/rand"

	"parknn/pkg/core"
)

// Split holds the four outputs of TrainTestSplit.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []core.Label
}

// TrainTestSplit shuffles rows with a fixed seed and holds out
// ceil(n*testRatio) of them for testing. The same seed always yields the
// same split.
func TrainTestSplit(X [][]float64, Y []core.Label, testRatio float64, seed int64) (*Split, error) {
	n := len(X)
	if n != len(Y) {
		return nil, fmt.Errorf("split: %d rows, %d labels", n, len(Y))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, fmt.Errorf("split: test ratio %v outside (0, 1)", testRatio)
	}
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest >= n {
		return nil, fmt.Errorf("split: %d rows leave nothing to train on at ratio %v", n, testRatio)
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	s := &Split{
		XTest:  make([][]float64, 0, nTest),
		YTest:  make([]core.Label, 0, nTest),
		XTrain: make([][]float64, 0, n-nTest),
		YTrain: make([]core.Label, 0, n-nTest),
	}
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, Y[idx])
		} else {
			s.XTrain = append(s.XTrain, X[idx])
			s.YTrain = append(s.YTrain, Y[idx])
		}
	}
	return s, nil
}
