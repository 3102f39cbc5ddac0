package pgstore

import (
	"context"
	"errors"
	"fmt"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"
	interfaces "investhistory/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL variant of the history store.
type Repository struct {
	pool *pgxpool.Pool
}

var _ interfaces.HistoryStore = (*Repository)(nil)

func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repository) EnsureIndexes(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) withTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Instruments

// The no-op update makes RETURNING yield the uid of an already stored row.
const upsertInstrumentQuery = `
	INSERT INTO instruments (uid, figi, ticker, name, currency, type, lot, class_code, isin, min_price_increment)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (figi) DO UPDATE SET figi = EXCLUDED.figi
	RETURNING uid`

func (r *Repository) UpsertInstruments(ctx context.Context, items []instruments.Instrument) ([]instruments.Link, error) {
	if len(items) == 0 {
		return []instruments.Link{}, nil
	}
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(upsertInstrumentQuery,
			uuid.New(),
			item.Figi,
			item.Ticker,
			item.Name,
			item.Currency,
			string(item.Type),
			item.Lot,
			item.ClassCode,
			item.Isin,
			item.MinPriceIncrement,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	links := make([]instruments.Link, 0, len(items))
	for _, item := range items {
		var uid uuid.UUID
		if err := results.QueryRow().Scan(&uid); err != nil {
			_ = results.Close()
			return nil, fmt.Errorf("upsert instrument %s: %w", item.Figi, err)
		}
		links = append(links, instruments.Link{Figi: item.Figi, ID: uid.String()})
	}
	return links, results.Close()
}

func (r *Repository) ListInstruments(ctx context.Context) ([]instruments.Instrument, error) {
	const query = `
		SELECT uid, figi, ticker, name, currency, type, lot,
		       COALESCE(class_code, ''), COALESCE(isin, ''), COALESCE(min_price_increment, 0)
		FROM instruments
		ORDER BY created_at ASC, figi ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]instruments.Instrument, 0)
	for rows.Next() {
		var (
			uid            uuid.UUID
			instrumentType string
			item           instruments.Instrument
		)
		if err := rows.Scan(&uid, &item.Figi, &item.Ticker, &item.Name, &item.Currency, &instrumentType,
			&item.Lot, &item.ClassCode, &item.Isin, &item.MinPriceIncrement); err != nil {
			return nil, err
		}
		item.ID = uid.String()
		item.Type = instruments.InstrumentType(instrumentType)
		result = append(result, item)
	}
	return result, rows.Err()
}

// Operations

const upsertOperationQuery = `
	INSERT INTO operations (
		uid, provider_id, parent_operation_id, operation_type, status,
		payment, price, currency, quantity, quantity_executed,
		figi, instrument_type, executed_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	ON CONFLICT (provider_id) DO UPDATE
	SET parent_operation_id = EXCLUDED.parent_operation_id,
	    operation_type = EXCLUDED.operation_type,
	    status = EXCLUDED.status,
	    payment = EXCLUDED.payment,
	    price = EXCLUDED.price,
	    currency = EXCLUDED.currency,
	    quantity = EXCLUDED.quantity,
	    quantity_executed = EXCLUDED.quantity_executed,
	    figi = EXCLUDED.figi,
	    instrument_type = EXCLUDED.instrument_type,
	    executed_at = EXCLUDED.executed_at`

func (r *Repository) UpsertOperations(ctx context.Context, items []operations.Operation) error {
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(upsertOperationQuery,
			uuid.New(),
			item.ProviderID,
			nullableString(item.ParentOperationID),
			string(item.Type),
			string(item.Status),
			item.Payment,
			item.Price,
			item.Currency,
			item.Quantity,
			item.QuantityExecuted,
			nullableString(item.Figi),
			nullableString(item.InstrumentType),
			item.Date.UTC(),
		)
	}
	return r.execBatch(ctx, batch)
}

func (r *Repository) ListOperations(ctx context.Context, filter operations.Filter) ([]operations.Operation, error) {
	where, args := operationsWhere(filter)
	query := `
		SELECT uid, provider_id, COALESCE(parent_operation_id, ''), operation_type, status,
		       payment, price, COALESCE(currency, ''), quantity, quantity_executed,
		       COALESCE(figi, ''), COALESCE(instrument_type, ''), executed_at, instrument_uid
		FROM operations` + where + `
		ORDER BY executed_at ASC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]operations.Operation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, op)
	}
	return result, rows.Err()
}

func scanOperation(row pgx.Row) (operations.Operation, error) {
	var (
		uid     uuid.UUID
		opType  string
		status  string
		linkRef pgtype.UUID
		op      operations.Operation
	)
	err := row.Scan(
		&uid,
		&op.ProviderID,
		&op.ParentOperationID,
		&opType,
		&status,
		&op.Payment,
		&op.Price,
		&op.Currency,
		&op.Quantity,
		&op.QuantityExecuted,
		&op.Figi,
		&op.InstrumentType,
		&op.Date,
		&linkRef,
	)
	if err != nil {
		return operations.Operation{}, err
	}
	op.ID = uid.String()
	op.Type = operations.OperationType(opType)
	op.Status = operations.OperationStatus(status)
	op.Date = op.Date.UTC()
	op.Instrument = refOrNil(linkRef)
	return op, nil
}

func (r *Repository) LinkOperations(ctx context.Context, figi, instrumentID string) (int64, error) {
	return r.linkByFigi(ctx, "operations", figi, instrumentID)
}

// Candles

const mergeCandlesQuery = `
	INSERT INTO candles (uid, figi, candle_interval, open, high, low, close, volume, period_start, is_complete)
	SELECT uid, figi, candle_interval, open, high, low, close, volume, period_start, is_complete
	FROM candles_staging
	ON CONFLICT (figi, candle_interval, period_start) DO UPDATE
	SET open = EXCLUDED.open,
	    high = EXCLUDED.high,
	    low = EXCLUDED.low,
	    close = EXCLUDED.close,
	    volume = EXCLUDED.volume,
	    is_complete = EXCLUDED.is_complete`

var candleStagingColumns = []string{
	"uid", "figi", "candle_interval", "open", "high", "low", "close", "volume", "period_start", "is_complete",
}

// UpsertCandles copies the candles into a transaction scoped staging table
// and merges them into candles by (figi, interval, period start).
func (r *Repository) UpsertCandles(ctx context.Context, items []marketdata.Candle) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, []interface{}{
			uuid.New(),
			item.Figi,
			string(item.Interval),
			item.Open,
			item.High,
			item.Low,
			item.Close,
			item.Volume,
			item.Time.UTC(),
			item.IsComplete,
		})
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		const staging = `
			CREATE TEMP TABLE candles_staging
			(LIKE candles INCLUDING DEFAULTS)
			ON COMMIT DROP`
		if _, err := tx.Exec(ctx, staging); err != nil {
			return fmt.Errorf("create staging table: %w", err)
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"candles_staging"}, candleStagingColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("copy candles: %w", err)
		}
		if _, err := tx.Exec(ctx, mergeCandlesQuery); err != nil {
			return fmt.Errorf("merge candles: %w", err)
		}
		return nil
	})
}

func (r *Repository) ListCandles(ctx context.Context, filter marketdata.CandleFilter) ([]marketdata.Candle, error) {
	where, args := candlesWhere(filter)
	query := `
		SELECT uid, figi, candle_interval, open, high, low, close, volume, period_start, is_complete, instrument_uid
		FROM candles` + where + `
		ORDER BY figi ASC, candle_interval ASC, period_start ASC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]marketdata.Candle, 0)
	for rows.Next() {
		var (
			uid      uuid.UUID
			interval string
			linkRef  pgtype.UUID
			candle   marketdata.Candle
		)
		if err := rows.Scan(&uid, &candle.Figi, &interval, &candle.Open, &candle.High, &candle.Low,
			&candle.Close, &candle.Volume, &candle.Time, &candle.IsComplete, &linkRef); err != nil {
			return nil, err
		}
		candle.ID = uid.String()
		candle.Interval = marketdata.CandleInterval(interval)
		candle.Time = candle.Time.UTC()
		candle.Instrument = refOrNil(linkRef)
		result = append(result, candle)
	}
	return result, rows.Err()
}

func (r *Repository) LinkCandles(ctx context.Context, figi, instrumentID string) (int64, error) {
	return r.linkByFigi(ctx, "candles", figi, instrumentID)
}

// Helpers

func (r *Repository) linkByFigi(ctx context.Context, table, figi, instrumentID string) (int64, error) {
	if figi == "" {
		return 0, errors.New("figi is required")
	}
	uid, err := uuid.Parse(instrumentID)
	if err != nil {
		return 0, fmt.Errorf("parse instrument id %q: %w", instrumentID, err)
	}
	query := fmt.Sprintf(`UPDATE %s SET instrument_uid = $2 WHERE figi = $1`, pgx.Identifier{table}.Sanitize())
	cmdTag, err := r.pool.Exec(ctx, query, figi, uid)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

func (r *Repository) execBatch(ctx context.Context, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	results := r.pool.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}

func operationsWhere(filter operations.Filter) (string, []interface{}) {
	w := &whereBuilder{}
	if filter.Figi != "" {
		w.add("figi", filter.Figi)
	}
	if filter.Status != "" {
		w.add("status", string(filter.Status))
	}
	return w.build()
}

func candlesWhere(filter marketdata.CandleFilter) (string, []interface{}) {
	w := &whereBuilder{}
	if filter.Figi != "" {
		w.add("figi", filter.Figi)
	}
	if filter.Interval != "" {
		w.add("candle_interval", string(filter.Interval))
	}
	return w.build()
}

type whereBuilder struct {
	clauses []string
	args    []interface{}
}

func (w *whereBuilder) add(column string, value interface{}) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *whereBuilder) build() (string, []interface{}) {
	if len(w.clauses) == 0 {
		return "", nil
	}
	where := "\n\t\tWHERE " + w.clauses[0]
	for _, clause := range w.clauses[1:] {
		where += " AND " + clause
	}
	return where, w.args
}

func nullableString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func refOrNil(ref pgtype.UUID) *string {
	if !ref.Valid {
		return nil
	}
	id := uuid.UUID(ref.Bytes).String()
	return &id
}
