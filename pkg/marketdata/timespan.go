package marketdata

import "github.com/polygon-io/client-go/rest/models"

// Timespan is a bar interval such as "1d".
type Timespan string

const (
	TimespanOneDay    Timespan = "1d"
	TimespanThreeDays Timespan = "3d"
	TimespanOneWeek   Timespan = "1w"
	TimespanOneMonth  Timespan = "1M"
)

func (t Timespan) Multiplier() int {
	switch t {
	case TimespanThreeDays:
		return 3
	default:
		return 1
	}
}

func (t Timespan) Timespan() models.Timespan {
	switch t {
	case TimespanOneWeek:
		return models.Week
	case TimespanOneMonth:
		return models.Month
	default:
		return models.Day
	}
}
