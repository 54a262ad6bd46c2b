package types

import "fmt"

// Label is the trading class a row is assigned to.
type Label string

const (
	// LabelBuy means the forward return exceeded the threshold.
	LabelBuy Label = "Buy"
	// LabelSell means the forward return fell below the negative threshold.
	LabelSell Label = "Sell"
	// LabelHold means the forward return stayed within the threshold band.
	LabelHold Label = "Hold"
	// LabelUnknown means the forward outcome is not observable yet.
	// Rows with this label must never reach the classifier.
	LabelUnknown Label = "Unknown"
)

// ReportedLabels is the fixed order predictions are reported in.
var ReportedLabels = []Label{LabelBuy, LabelSell, LabelHold}

func (l Label) String() string {
	return string(l)
}

// IsKnown reports whether the label is one of the three trainable classes.
func (l Label) IsKnown() bool {
	return l == LabelBuy || l == LabelSell || l == LabelHold
}

// ParseLabel parses a trainable class name.
func ParseLabel(s string) (Label, error) {
	switch Label(s) {
	case LabelBuy, LabelSell, LabelHold:
		return Label(s), nil
	default:
		return "", fmt.Errorf("unknown label %q", s)
	}
}

// Prediction is the classifier output for the latest row of an instrument.
type Prediction struct {
	Ticker string `json:"ticker"`
	Signal Label  `json:"signal"`
	// Confidence is the winning class probability in percent.
	Confidence float64 `json:"confidence"`
	// Probabilities holds the per-class probability in percent.
	Probabilities map[Label]float64 `json:"probabilities"`
}
