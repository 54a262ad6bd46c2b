package classifier

import (
	"math"

	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each column to zero mean and unit variance.
// Columns with zero variance keep a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit learns the per-column mean and population standard deviation.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New(errors.ErrCodeInsufficientData, "cannot fit scaler on an empty matrix")
	}

	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return errors.Newf(errors.ErrCodeInvalidParameter, "ragged matrix: expected %d columns, got %d", width, len(row))
		}
	}

	mean := make([]float64, width)
	scale := make([]float64, width)
	column := make([]float64, len(X))

	for j := range width {
		for i, row := range X {
			column[i] = row[j]
		}

		mean[j], scale[j] = stat.PopMeanStdDev(column, nil)
		if constantColumn(len(X), mean[j], scale[j]) {
			scale[j] = 1
		}
	}

	s.Mean = mean
	s.Scale = scale

	return nil
}

// constantColumn reports whether a variance is within rounding error of zero,
// using the same bound as scikit-learn's StandardScaler.
func constantColumn(n int, mean, std float64) bool {
	eps := math.Nextafter(1, 2) - 1
	variance := std * std
	bound := float64(n)*eps*variance + math.Pow(float64(n)*mean*eps, 2)

	return variance <= bound
}

// Transform returns a standardized copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(s.Mean) == 0 {
		return nil, errors.New(errors.ErrCodeModelNotTrained, "scaler is not fitted")
	}

	if len(x) != len(s.Mean) {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "expected %d features, got %d", len(s.Mean), len(x))
	}

	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}

	return out, nil
}

// TransformAll standardizes every row of X.
func (s *StandardScaler) TransformAll(X [][]float64) ([][]float64, error) {
	out := make([][]float64, len(X))

	for i, row := range X {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}

		out[i] = scaled
	}

	return out, nil
}
