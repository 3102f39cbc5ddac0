package pgstore

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS instruments (
		uid                 UUID PRIMARY KEY,
		figi                VARCHAR(32) NOT NULL UNIQUE,
		ticker              VARCHAR(50) NOT NULL,
		name                TEXT NOT NULL,
		currency            VARCHAR(16) NOT NULL,
		type                VARCHAR(32) NOT NULL,
		lot                 INTEGER NOT NULL DEFAULT 1,
		class_code          VARCHAR(50),
		isin                VARCHAR(32),
		min_price_increment DOUBLE PRECISION,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS instruments_ticker_idx ON instruments (ticker)`,
	`CREATE INDEX IF NOT EXISTS instruments_type_idx ON instruments (type)`,

	`CREATE TABLE IF NOT EXISTS operations (
		uid                 UUID PRIMARY KEY,
		provider_id         TEXT NOT NULL UNIQUE,
		parent_operation_id TEXT,
		operation_type      VARCHAR(64) NOT NULL,
		status              VARCHAR(32) NOT NULL,
		payment             DOUBLE PRECISION NOT NULL,
		price               DOUBLE PRECISION NOT NULL,
		currency            VARCHAR(16),
		quantity            BIGINT NOT NULL,
		quantity_executed   BIGINT NOT NULL,
		figi                VARCHAR(32),
		instrument_type     VARCHAR(32),
		executed_at         TIMESTAMPTZ NOT NULL,
		instrument_uid      UUID REFERENCES instruments (uid)
	)`,
	`CREATE INDEX IF NOT EXISTS operations_figi_idx ON operations (figi)`,
	`CREATE INDEX IF NOT EXISTS operations_type_status_date_idx ON operations (operation_type, status, executed_at)`,
	`CREATE INDEX IF NOT EXISTS operations_instrument_status_idx ON operations (instrument_uid, status)`,

	`CREATE TABLE IF NOT EXISTS candles (
		uid             UUID PRIMARY KEY,
		figi            VARCHAR(32) NOT NULL,
		candle_interval VARCHAR(16) NOT NULL,
		open            DOUBLE PRECISION NOT NULL,
		high            DOUBLE PRECISION NOT NULL,
		low             DOUBLE PRECISION NOT NULL,
		close           DOUBLE PRECISION NOT NULL,
		volume          BIGINT NOT NULL,
		period_start    TIMESTAMPTZ NOT NULL,
		is_complete     BOOLEAN NOT NULL DEFAULT TRUE,
		instrument_uid  UUID REFERENCES instruments (uid),
		UNIQUE (figi, candle_interval, period_start)
	)`,
}
