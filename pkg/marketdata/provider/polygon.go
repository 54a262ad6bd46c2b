package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata/writer"
)

// PolygonPageLimit is the maximum number of aggregates requested per page.
const PolygonPageLimit = 50000

// PolygonAggsIterator is the subset of the Polygon list iterator used here.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the Polygon REST client used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonRESTClient struct {
	client *polygon.Client
}

func (c polygonRESTClient) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return c.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	log       *logger.Logger
}

func NewPolygonClient(apiKey string, log *logger.Logger) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon api key is required")
	}

	return NewPolygonClientWithAPI(polygonRESTClient{client: polygon.New(apiKey)}, log), nil
}

// NewPolygonClientWithAPI creates a provider on top of an existing API client.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, log *logger.Logger) *PolygonClient {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &PolygonClient{
		apiClient: apiClient,
		log:       log,
	}
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, multiplier int, timespan models.Timespan, w writer.MarketDataWriter, onProgress OnDownloadProgress) (int, error) {
	if w == nil {
		return 0, errors.New(errors.ErrCodeMissingParameter, "no writer given to polygon download")
	}

	log := c.log.WithTicker(ticker)
	totalDays := math.Max(endDate.Sub(startDate).Hours()/24, 1)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(PolygonPageLimit)

	iter := c.apiClient.ListAggs(ctx, params)

	count := 0
	skipped := 0

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		agg := iter.Item()

		bar, ok := toPriceBar(ticker, agg, timespan)
		if !ok {
			skipped++

			continue
		}

		if err := w.Write(ctx, bar); err != nil {
			return count, err
		}

		count++

		if onProgress != nil {
			elapsed := bar.Time.Sub(startDate).Hours() / 24
			onProgress(math.Min(elapsed, totalDays), totalDays, fmt.Sprintf("Downloading %s", ticker))
		}
	}

	if err := iter.Err(); err != nil {
		return count, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker)
	}

	if skipped > 0 {
		log.Warn("Skipped malformed aggregates", zap.Int("skipped", skipped))
	}

	log.Debug("Finished polygon download", zap.Int("bars", count))

	return count, nil
}

// toPriceBar converts a Polygon aggregate. Aggregates without a positive finite
// close are rejected. Daily and coarser bars are keyed by their UTC calendar date.
func toPriceBar(ticker string, agg models.Agg, timespan models.Timespan) (types.PriceBar, bool) {
	if math.IsNaN(agg.Close) || math.IsInf(agg.Close, 0) || agg.Close <= 0 {
		return types.PriceBar{}, false
	}

	ts := time.Time(agg.Timestamp).UTC()

	switch timespan {
	case models.Day, models.Week, models.Month, models.Quarter, models.Year:
		ts = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}

	return types.PriceBar{
		Symbol:       ticker,
		Time:         ts,
		Open:         agg.Open,
		High:         agg.High,
		Low:          agg.Low,
		Close:        agg.Close,
		Volume:       int64(math.Round(agg.Volume)),
		VWAP:         agg.VWAP,
		Transactions: agg.Transactions,
		OTC:          optional.None[bool](),
	}, true
}
