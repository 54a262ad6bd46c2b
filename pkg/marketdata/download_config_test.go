package marketdata

import (
	"testing"
	"time"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DownloadConfigTestSuite struct {
	suite.Suite
	now time.Time
}

func TestDownloadConfigTestSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func (suite *DownloadConfigTestSuite) SetupTest() {
	suite.now = time.Date(2025, 6, 3, 18, 30, 0, 0, time.UTC)
}

func (suite *DownloadConfigTestSuite) TestDefaultIsValid() {
	suite.NoError(DefaultConfig().Validate())
}

func (suite *DownloadConfigTestSuite) TestInvalidFields() {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"interval", func(c *Config) { c.Interval = "5m" }},
		{"lookback", func(c *Config) { c.LookbackDays = 0 }},
		{"batch size", func(c *Config) { c.BatchSize = 0 }},
		{"rate limit", func(c *Config) { c.RateLimit = -time.Second }},
		{"start date format", func(c *Config) { c.StartDate = "06/05/2023" }},
		{"reversed range", func(c *Config) {
			c.StartDate = "2025-06-03"
			c.EndDate = "2023-06-05"
		}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			config := DefaultConfig()
			tc.mutate(&config)
			suite.Error(config.Validate())
		})
	}
}

func (suite *DownloadConfigTestSuite) TestRangeFromLookback() {
	config := DefaultConfig()

	start, end, err := config.Range(suite.now)
	suite.NoError(err)
	suite.Equal(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), end)
	suite.Equal(end.AddDate(0, 0, -730), start)
}

func (suite *DownloadConfigTestSuite) TestRangeFromDates() {
	config := DefaultConfig()
	config.StartDate = "2023-06-05"
	config.EndDate = "2025-06-03"

	params, err := config.ToDownloadParams("AAPL", suite.now)
	suite.NoError(err)
	suite.Equal("AAPL", params.Ticker)
	suite.Equal(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), params.StartDate)
	suite.Equal(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), params.EndDate)
	suite.Equal(1, params.Multiplier)
	suite.Equal(models.Day, params.Timespan)
}

func (suite *DownloadConfigTestSuite) TestRangeRejectsEmptyWindow() {
	config := DefaultConfig()
	config.StartDate = "2025-06-03"

	_, _, err := config.Range(suite.now)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
