package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// insertBatchSize bounds the rows per multi-row INSERT.
const insertBatchSize = 500

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	dialect dialect
	// onClose releases resources owned next to db, such as a pgx pool.
	onClose func()
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect, log *logger.Logger) (*SQLStore, error) {
	s := &SQLStore{
		db:      db,
		logger:  log,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		dialect: d,
	}

	if err := s.Ping(ctx); err != nil {
		return nil, err
	}

	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLStore) initialize(ctx context.Context) error {
	for _, ddl := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create %s schema", s.dialect.name)
		}
	}

	return nil
}

// Ping implements Store.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "%s store is unreachable", s.dialect.name)
	}

	return nil
}

// ListInstruments implements Store.
func (s *SQLStore) ListInstruments(ctx context.Context) ([]types.Instrument, error) {
	query, args, err := s.sq.Select("ticker", "name").From("instruments").OrderBy("ticker ASC").ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build instrument query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to list instruments", err)
	}
	defer rows.Close()

	var instruments []types.Instrument

	for rows.Next() {
		var (
			ticker string
			name   sql.NullString
		)

		if err := rows.Scan(&ticker, &name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan instrument", err)
		}

		instruments = append(instruments, types.Instrument{Ticker: ticker, Name: name.String})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to list instruments", err)
	}

	return instruments, nil
}

// UpsertInstrument implements Store.
func (s *SQLStore) UpsertInstrument(ctx context.Context, instrument types.Instrument) error {
	query, args, err := s.sq.
		Insert("instruments").
		Columns("ticker", "name").
		Values(instrument.Ticker, instrument.Name).
		Suffix("ON CONFLICT (ticker) DO UPDATE SET name = EXCLUDED.name").
		ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build instrument upsert", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to upsert instrument %s", instrument.Ticker)
	}

	return nil
}

// LoadBars implements Store.
func (s *SQLStore) LoadBars(ctx context.Context, ticker string) ([]types.PriceBar, error) {
	return s.loadBars(ctx, ticker, 0)
}

// LoadRecentBars implements Store.
func (s *SQLStore) LoadRecentBars(ctx context.Context, ticker string, limit int) ([]types.PriceBar, error) {
	if limit <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must be positive, got %d", limit)
	}

	return s.loadBars(ctx, ticker, limit)
}

func (s *SQLStore) loadBars(ctx context.Context, ticker string, limit int) ([]types.PriceBar, error) {
	builder := s.sq.Select(barColumns...).From("price_bars").Where(squirrel.Eq{"ticker": ticker})
	if limit > 0 {
		builder = builder.OrderBy("time DESC").Limit(uint64(limit))
	} else {
		builder = builder.OrderBy("time ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build bar query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap(errors.ErrCodeQueryFailed, err, "failed to load bars for %s", ticker)
	}
	defer rows.Close()

	var bars []types.PriceBar

	for rows.Next() {
		var (
			symbol                       string
			timestamp                    time.Time
			open, high, low, close, vwap sql.NullFloat64
			volume, transactions         sql.NullInt64
			otc                          sql.NullBool
		)

		if err := rows.Scan(&symbol, &timestamp, &open, &high, &low, &close, &volume, &vwap, &transactions, &otc); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan bar for %s", ticker)
		}

		if !close.Valid {
			return nil, errors.Newf(errors.ErrCodeMalformedData, "%s: bar at %s has no close", ticker, timestamp.UTC())
		}

		bar := types.PriceBar{
			Symbol:       symbol,
			Time:         timestamp.UTC(),
			Open:         open.Float64,
			High:         high.Float64,
			Low:          low.Float64,
			Close:        close.Float64,
			Volume:       volume.Int64,
			VWAP:         vwap.Float64,
			Transactions: transactions.Int64,
			OTC:          optional.None[bool](),
		}

		if otc.Valid {
			bar.OTC = optional.Some(otc.Bool)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap(errors.ErrCodeQueryFailed, err, "failed to read bars for %s", ticker)
	}

	if limit > 0 {
		slices.Reverse(bars)
	}

	return bars, nil
}

// WriteBars implements Store.
func (s *SQLStore) WriteBars(ctx context.Context, bars []types.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to begin bar transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	for start := 0; start < len(bars); start += insertBatchSize {
		batch := bars[start:min(start+insertBatchSize, len(bars))]

		builder := s.sq.Insert("price_bars").Columns(barColumns...).
			Suffix(`ON CONFLICT (ticker, time) DO UPDATE SET
				open = EXCLUDED.open,
				high = EXCLUDED.high,
				low = EXCLUDED.low,
				close = EXCLUDED.close,
				volume = EXCLUDED.volume,
				vwap = EXCLUDED.vwap,
				transactions = EXCLUDED.transactions,
				otc = EXCLUDED.otc`)

		for _, bar := range batch {
			var otc any
			if bar.OTC.IsSome() {
				otc = bar.OTC.Unwrap()
			}

			builder = builder.Values(bar.Symbol, bar.Time.UTC(), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.VWAP, bar.Transactions, otc)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build bar insert", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return s.wrap(errors.ErrCodeWriteFailed, err, "failed to write bars")
		}
	}

	if err := tx.Commit(); err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to commit bars")
	}

	s.logger.Debug("Wrote price bars", zap.String("ticker", bars[0].Symbol), zap.Int("count", len(bars)))

	return nil
}

// ReplaceIndicators implements Store. The delete and the inserts run in one
// transaction so readers see either the old or the new table, never a mix.
func (s *SQLStore) ReplaceIndicators(ctx context.Context, ticker string, rows []types.IndicatorRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to begin indicator transaction for %s", ticker)
	}
	defer tx.Rollback() //nolint:errcheck

	query, args, err := s.sq.Delete("indicators").Where(squirrel.Eq{"ticker": ticker}).ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build indicator delete", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to clear indicators for %s", ticker)
	}

	for start := 0; start < len(rows); start += insertBatchSize {
		batch := rows[start:min(start+insertBatchSize, len(rows))]

		builder := s.sq.Insert("indicators").Columns(indicatorColumns...)
		for _, row := range batch {
			builder = builder.Values(
				ticker, row.Time.UTC(), row.Close,
				nullable(row.MA5), nullable(row.MA20), nullable(row.MA50), nullable(row.MA200),
				nullable(row.EMA12), nullable(row.EMA26),
				nullable(row.MACD), nullable(row.SignalLine),
				nullable(row.RSI),
				nullable(row.Fib0), nullable(row.Fib236), nullable(row.Fib382),
				nullable(row.Fib500), nullable(row.Fib618), nullable(row.Fib100),
			)
		}

		query, args, err := builder.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build indicator insert", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return s.wrap(errors.ErrCodeWriteFailed, err, "failed to insert indicators for %s", ticker)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.wrap(errors.ErrCodeWriteFailed, err, "failed to commit indicators for %s", ticker)
	}

	return nil
}

// LoadIndicators implements Store.
func (s *SQLStore) LoadIndicators(ctx context.Context, ticker string, limit int) ([]types.IndicatorRow, error) {
	if limit < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must not be negative, got %d", limit)
	}

	builder := s.sq.Select(indicatorColumns...).From("indicators").Where(squirrel.Eq{"ticker": ticker})
	if limit > 0 {
		builder = builder.OrderBy("time DESC").Limit(uint64(limit))
	} else {
		builder = builder.OrderBy("time ASC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build indicator query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.wrap(errors.ErrCodeQueryFailed, err, "failed to load indicators for %s", ticker)
	}
	defer rows.Close()

	var result []types.IndicatorRow

	for rows.Next() {
		row, err := scanIndicatorRow(rows)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan indicators for %s", ticker)
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, s.wrap(errors.ErrCodeQueryFailed, err, "failed to read indicators for %s", ticker)
	}

	if limit > 0 {
		slices.Reverse(result)
	}

	return result, nil
}

// LatestIndicator implements Store.
func (s *SQLStore) LatestIndicator(ctx context.Context, ticker string) (optional.Option[types.IndicatorRow], error) {
	rows, err := s.LoadIndicators(ctx, ticker, 1)
	if err != nil {
		return optional.None[types.IndicatorRow](), err
	}

	if len(rows) == 0 {
		return optional.None[types.IndicatorRow](), nil
	}

	return optional.Some(rows[0]), nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	err := s.db.Close()

	if s.onClose != nil {
		s.onClose()
	}

	return err
}

// wrap classifies err as UpstreamUnavailable when the connection itself failed.
func (s *SQLStore) wrap(code errors.ErrorCode, err error, format string, args ...any) error {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		code = errors.ErrCodeDataSourceUnavailable
	}

	return errors.Wrapf(code, err, format, args...)
}

func scanIndicatorRow(rows *sql.Rows) (types.IndicatorRow, error) {
	var (
		ticker    string
		timestamp time.Time
		close     float64
		values    [15]sql.NullFloat64
	)

	dest := []any{&ticker, &timestamp, &close}
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := rows.Scan(dest...); err != nil {
		return types.IndicatorRow{}, err
	}

	row := types.IndicatorRow{Symbol: ticker, Time: timestamp.UTC(), Close: close}
	fields := []*optional.Option[float64]{
		&row.MA5, &row.MA20, &row.MA50, &row.MA200,
		&row.EMA12, &row.EMA26,
		&row.MACD, &row.SignalLine,
		&row.RSI,
		&row.Fib0, &row.Fib236, &row.Fib382, &row.Fib500, &row.Fib618, &row.Fib100,
	}

	for i, field := range fields {
		if values[i].Valid {
			*field = optional.Some(values[i].Float64)
		} else {
			*field = optional.None[float64]()
		}
	}

	return row, nil
}

func nullable(o optional.Option[float64]) any {
	if o.IsNone() {
		return nil
	}

	return o.Unwrap()
}

var _ Store = (*SQLStore)(nil)
