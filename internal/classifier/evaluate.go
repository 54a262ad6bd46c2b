package classifier

import (
	"math"
	"math/rand/v2"

	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// Split partitions d into a training and test set after a seeded shuffle.
// The test set holds ceil(testSize*n) samples.
func Split(d *Dataset, testSize float64, seed uint64) (train, test *Dataset, err error) {
	if testSize < 0 || testSize >= 1 {
		return nil, nil, errors.Newf(errors.ErrCodeInvalidParameter, "test size must be in [0, 1), got %v", testSize)
	}

	n := d.Len()
	nTest := int(math.Ceil(testSize * float64(n)))

	if n-nTest < 1 {
		return nil, nil, errors.NewInsufficientDataErrorf(2, n, "", "cannot split %d samples with test size %v", n, testSize)
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)

	train = &Dataset{Tickers: d.Tickers}
	test = &Dataset{Tickers: d.Tickers}

	for i, idx := range perm {
		target := train
		if i < nTest {
			target = test
		}

		target.X = append(target.X, d.X[idx])
		target.Y = append(target.Y, d.Y[idx])
	}

	return train, test, nil
}

// ClassMetrics are the one-vs-rest scores of one class.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report summarizes classifier quality on a held out set.
type Report struct {
	Accuracy float64                      `json:"accuracy"`
	Samples  int                          `json:"samples"`
	Classes  map[types.Label]ClassMetrics `json:"classes"`
}

// Evaluate scores predictions against the true labels.
func Evaluate(truth, predicted []types.Label) Report {
	report := Report{
		Samples: len(truth),
		Classes: make(map[types.Label]ClassMetrics, len(types.ReportedLabels)),
	}

	if len(truth) == 0 || len(truth) != len(predicted) {
		return report
	}

	correct := 0
	tp := map[types.Label]int{}
	fp := map[types.Label]int{}
	fn := map[types.Label]int{}

	for i := range truth {
		if truth[i] == predicted[i] {
			correct++
			tp[truth[i]]++

			continue
		}

		fp[predicted[i]]++
		fn[truth[i]]++
	}

	report.Accuracy = float64(correct) / float64(len(truth))

	for _, l := range types.ReportedLabels {
		m := ClassMetrics{Support: tp[l] + fn[l]}
		m.Precision = ratioOrZero(tp[l], tp[l]+fp[l])
		m.Recall = ratioOrZero(tp[l], tp[l]+fn[l])

		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}

		report.Classes[l] = m
	}

	return report
}

func ratioOrZero(num, den int) float64 {
	if den == 0 {
		return 0
	}

	return float64(num) / float64(den)
}
