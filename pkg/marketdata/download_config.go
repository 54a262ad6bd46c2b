package marketdata

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

const dateLayout = "2006-01-02"

// Config configures the Polygon fetch job.
type Config struct {
	// ApiKey is only needed by the fetch command. POLYGON_API_KEY overrides it.
	ApiKey string `yaml:"api_key" json:"api_key" jsonschema:"title=API Key,description=Polygon.io API key for authentication"`
	// StartDate and EndDate bound the request. When StartDate is empty the range
	// starts LookbackDays before EndDate; when EndDate is empty it ends today.
	StartDate    string        `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=First day to download,format=date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string        `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Last day to download,format=date" validate:"omitempty,datetime=2006-01-02"`
	LookbackDays int           `yaml:"lookback_days" json:"lookback_days" jsonschema:"title=Lookback Days,description=Days downloaded when no start date is given,minimum=1,default=730" validate:"min=1"`
	Interval     string        `yaml:"interval" json:"interval" jsonschema:"title=Interval,description=Bar interval,enum=1d,enum=3d,enum=1w,enum=1M,default=1d" validate:"required,oneof=1d 3d 1w 1M"`
	RateLimit    time.Duration `yaml:"rate_limit" json:"rate_limit" jsonschema:"title=Rate Limit,description=Pause between tickers in nanoseconds (YAML accepts 15s),default=15000000000" validate:"min=0"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" jsonschema:"title=Batch Size,description=Bars per store upsert,minimum=1,default=500" validate:"min=1"`
	ShowProgress bool          `yaml:"show_progress" json:"show_progress" jsonschema:"title=Show Progress,description=Render a progress bar on stderr"`
}

// DefaultConfig downloads two years of daily bars, pausing 15s between tickers
// to stay inside the free Polygon tier.
func DefaultConfig() Config {
	return Config{
		ApiKey:       "",
		StartDate:    "",
		EndDate:      "",
		LookbackDays: 730,
		Interval:     string(TimespanOneDay),
		RateLimit:    15 * time.Second,
		BatchSize:    500,
		ShowProgress: true,
	}
}

// Validate validates the config fields and the date range.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid market data config", err)
	}

	if c.StartDate != "" && c.EndDate != "" {
		if _, _, err := c.Range(time.Now()); err != nil {
			return err
		}
	}

	return nil
}

// Range resolves the download window relative to now.
func (c Config) Range(now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if c.EndDate != "" {
		parsed, err := time.Parse(dateLayout, c.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid end_date, expected YYYY-MM-DD", err)
		}

		end = parsed
	}

	start := end.AddDate(0, 0, -c.LookbackDays)

	if c.StartDate != "" {
		parsed, err := time.Parse(dateLayout, c.StartDate)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid start_date, expected YYYY-MM-DD", err)
		}

		start = parsed
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.Newf(errors.ErrCodeInvalidParameter, "start date %s is not before end date %s", start.Format(dateLayout), end.Format(dateLayout))
	}

	return start, end, nil
}

// ToDownloadParams builds the request for one ticker.
func (c Config) ToDownloadParams(ticker string, now time.Time) (DownloadParams, error) {
	start, end, err := c.Range(now)
	if err != nil {
		return DownloadParams{}, err
	}

	timespan := Timespan(c.Interval)

	return DownloadParams{
		Ticker:     ticker,
		StartDate:  start,
		EndDate:    end,
		Multiplier: timespan.Multiplier(),
		Timespan:   timespan.Timespan(),
	}, nil
}
