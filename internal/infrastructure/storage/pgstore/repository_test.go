package pgstore

import (
	"strings"
	"testing"

	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestOperationsWhere(t *testing.T) {
	where, args := operationsWhere(operations.Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)

	where, args = operationsWhere(operations.Filter{Figi: "BBG000B9XRY4", Status: operations.StatusDone})
	assert.Contains(t, where, "WHERE figi = $1 AND status = $2")
	assert.Equal(t, []interface{}{"BBG000B9XRY4", "Done"}, args)
}

func TestCandlesWhere(t *testing.T) {
	where, args := candlesWhere(marketdata.CandleFilter{Interval: marketdata.IntervalWeek})
	assert.Contains(t, where, "WHERE candle_interval = $1")
	assert.Equal(t, []interface{}{"week"}, args)

	where, args = candlesWhere(marketdata.CandleFilter{Figi: "F1", Interval: marketdata.IntervalDay})
	assert.Contains(t, where, "figi = $1 AND candle_interval = $2")
	assert.Len(t, args, 2)
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, nullableString(""))
	assert.Equal(t, "F1", nullableString("F1"))
}

func TestRefOrNil(t *testing.T) {
	assert.Nil(t, refOrNil(pgtype.UUID{}))

	id := uuid.New()
	ref := refOrNil(pgtype.UUID{Bytes: id, Valid: true})
	if assert.NotNil(t, ref) {
		assert.Equal(t, id.String(), *ref)
	}
}

func TestSchemaCoversNaturalKeys(t *testing.T) {
	schema := strings.Join(schemaStatements, "\n")
	assert.Contains(t, schema, "figi                VARCHAR(32) NOT NULL UNIQUE")
	assert.Contains(t, schema, "provider_id         TEXT NOT NULL UNIQUE")
	assert.Contains(t, schema, "UNIQUE (figi, candle_interval, period_start)")
	assert.Contains(t, schema, "operations_type_status_date_idx")
}
