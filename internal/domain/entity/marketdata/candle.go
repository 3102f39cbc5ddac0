package marketdata

import "time"

// CandleInterval is the resolution of a price bar.
type CandleInterval string

const (
	IntervalDay   CandleInterval = "day"
	IntervalWeek  CandleInterval = "week"
	IntervalMonth CandleInterval = "month"
)

// HistoryIntervals are the resolutions collected for every instrument on import.
var HistoryIntervals = []CandleInterval{IntervalDay, IntervalWeek, IntervalMonth}

func (i CandleInterval) String() string {
	return string(i)
}

func (i CandleInterval) IsValid() bool {
	switch i {
	case IntervalDay, IntervalWeek, IntervalMonth:
		return true
	default:
		return false
	}
}

// Candle is one OHLCV bar of an instrument at a given resolution.
// Instrument is nil until the import backfill links it to its instrument row.
type Candle struct {
	ID         string         `json:"_id,omitempty"`
	Figi       string         `json:"figi"`
	Interval   CandleInterval `json:"interval"`
	Open       float64        `json:"open"`
	High       float64        `json:"high"`
	Low        float64        `json:"low"`
	Close      float64        `json:"close"`
	Volume     int64          `json:"volume"`
	Time       time.Time      `json:"time"`
	IsComplete bool           `json:"isComplete"`
	Instrument *string        `json:"instrument"`
}

// CandleFilter narrows a listing of candles. Zero value selects everything.
type CandleFilter struct {
	Figi     string
	Interval CandleInterval
}
