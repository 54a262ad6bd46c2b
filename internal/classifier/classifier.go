// Package classifier trains and serves the Buy/Sell/Hold model on feature vectors.
//
// The adapter owns the mapping between the class order reported by the
// underlying classifier and the fixed {Buy, Sell, Hold} order used in
// predictions. The mapping is always rebuilt from Classes(), never assumed.
package classifier

import (
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Classifier is a multi-class model over standardized feature vectors.
type Classifier interface {
	// Fit trains the model. X and y must have the same length.
	Fit(X [][]float64, y []types.Label) error
	// PredictProba returns one probability per class, in Classes() order.
	PredictProba(x []float64) ([]float64, error)
	// Classes returns the class order used by PredictProba.
	Classes() []types.Label
}

// Predict returns the most probable class of x. Ties resolve to the class listed first.
func Predict(c Classifier, x []float64) (types.Label, error) {
	proba, err := c.PredictProba(x)
	if err != nil {
		return "", err
	}

	classes := c.Classes()
	if len(proba) != len(classes) || len(classes) == 0 {
		return "", errors.Newf(errors.ErrCodeModelStateInvalid, "classifier returned %d probabilities for %d classes", len(proba), len(classes))
	}

	best := 0
	for i := range proba {
		if proba[i] > proba[best] {
			best = i
		}
	}

	return classes[best], nil
}

// IsUnavailable reports whether err means no prediction can be made for the instrument.
func IsUnavailable(err error) bool {
	return errors.HasCode(err, errors.ErrCodePredictionUnavailable)
}

// IsNotTrained reports whether err means no classifier state is loaded.
func IsNotTrained(err error) bool {
	return errors.HasCode(err, errors.ErrCodeModelNotTrained)
}
