package classifier

import (
	"math/rand/v2"

	"github.com/rxtech-lab/argo-screener/internal/feature"
	"github.com/rxtech-lab/argo-screener/internal/types"
)

// separable returns n samples whose class is decided by the first feature.
func separable(n int, seed uint64) ([][]float64, []types.Label) {
	rng := rand.New(rand.NewPCG(seed, 1))
	X := make([][]float64, n)
	y := make([]types.Label, n)

	for i := range X {
		row := make([]float64, feature.Width)
		for j := range row {
			row[j] = rng.Float64()*2 - 1
		}

		X[i] = row

		switch {
		case row[0] > 0.3:
			y[i] = types.LabelBuy
		case row[0] < -0.3:
			y[i] = types.LabelSell
		default:
			y[i] = types.LabelHold
		}
	}

	return X, y
}

// fixedClassifier returns the same probabilities in a caller chosen class order.
type fixedClassifier struct {
	classes []types.Label
	proba   []float64
	fitted  int
}

func (f *fixedClassifier) Fit(X [][]float64, y []types.Label) error {
	f.fitted = len(X)

	return nil
}

func (f *fixedClassifier) PredictProba(x []float64) ([]float64, error) {
	return f.proba, nil
}

func (f *fixedClassifier) Classes() []types.Label {
	return f.classes
}
