package store

// dialect holds the backend specific DDL. Queries are shared; both backends
// accept $n placeholders and ON CONFLICT upserts.
type dialect struct {
	name   string
	schema []string
}

var duckdbDialect = dialect{
	name: "duckdb",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS instruments (
			ticker VARCHAR PRIMARY KEY,
			name VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS price_bars (
			ticker VARCHAR NOT NULL,
			time TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume BIGINT,
			vwap DOUBLE,
			transactions BIGINT,
			otc BOOLEAN,
			PRIMARY KEY (ticker, time)
		)`,
		`CREATE TABLE IF NOT EXISTS indicators (
			ticker VARCHAR NOT NULL,
			time TIMESTAMP NOT NULL,
			close DOUBLE NOT NULL,
			ma_5 DOUBLE,
			ma_20 DOUBLE,
			ma_50 DOUBLE,
			ma_200 DOUBLE,
			ema_12 DOUBLE,
			ema_26 DOUBLE,
			macd DOUBLE,
			signal_line DOUBLE,
			rsi DOUBLE,
			fib_0 DOUBLE,
			fib_236 DOUBLE,
			fib_382 DOUBLE,
			fib_500 DOUBLE,
			fib_618 DOUBLE,
			fib_100 DOUBLE,
			PRIMARY KEY (ticker, time)
		)`,
	},
}

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS instruments (
			ticker TEXT PRIMARY KEY,
			name TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS price_bars (
			ticker TEXT NOT NULL,
			time TIMESTAMPTZ NOT NULL,
			open DOUBLE PRECISION,
			high DOUBLE PRECISION,
			low DOUBLE PRECISION,
			close DOUBLE PRECISION,
			volume BIGINT,
			vwap DOUBLE PRECISION,
			transactions BIGINT,
			otc BOOLEAN,
			PRIMARY KEY (ticker, time)
		)`,
		`CREATE TABLE IF NOT EXISTS indicators (
			ticker TEXT NOT NULL,
			time TIMESTAMPTZ NOT NULL,
			close DOUBLE PRECISION NOT NULL,
			ma_5 DOUBLE PRECISION,
			ma_20 DOUBLE PRECISION,
			ma_50 DOUBLE PRECISION,
			ma_200 DOUBLE PRECISION,
			ema_12 DOUBLE PRECISION,
			ema_26 DOUBLE PRECISION,
			macd DOUBLE PRECISION,
			signal_line DOUBLE PRECISION,
			rsi DOUBLE PRECISION,
			fib_0 DOUBLE PRECISION,
			fib_236 DOUBLE PRECISION,
			fib_382 DOUBLE PRECISION,
			fib_500 DOUBLE PRECISION,
			fib_618 DOUBLE PRECISION,
			fib_100 DOUBLE PRECISION,
			PRIMARY KEY (ticker, time)
		)`,
	},
}

var barColumns = []string{"ticker", "time", "open", "high", "low", "close", "volume", "vwap", "transactions", "otc"}

var indicatorColumns = []string{
	"ticker", "time", "close",
	"ma_5", "ma_20", "ma_50", "ma_200",
	"ema_12", "ema_26",
	"macd", "signal_line",
	"rsi",
	"fib_0", "fib_236", "fib_382", "fib_500", "fib_618", "fib_100",
}
