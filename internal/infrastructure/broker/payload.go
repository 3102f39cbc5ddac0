package broker

import (
	"time"

	"investhistory/internal/application/service/ingest"
)

const EventIngestCompleted = "ingest.completed"

// IngestEvent is published to the ingest exchange after a successful run.
type IngestEvent struct {
	Event            string    `json:"event"`
	Operations       int       `json:"operations"`
	Instruments      int       `json:"instruments"`
	Candles          int       `json:"candles"`
	LinkedOperations int64     `json:"linked_operations"`
	LinkedCandles    int64     `json:"linked_candles"`
	FinishedAt       time.Time `json:"finished_at"`
}

func newIngestEvent(report ingest.Report) IngestEvent {
	return IngestEvent{
		Event:            EventIngestCompleted,
		Operations:       report.Operations,
		Instruments:      report.Instruments,
		Candles:          report.Candles,
		LinkedOperations: report.LinkedOperations,
		LinkedCandles:    report.LinkedCandles,
		FinishedAt:       report.FinishedAt.UTC(),
	}
}
