package portfolio

import (
	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/operations"
)

// Purchases summarises Buy and BuyCard operations of one instrument.
type Purchases struct {
	Quantity       int64   `json:"quantity"`
	Payment        float64 `json:"payment"`
	AvgPriceSimple float64 `json:"avgPriceSimple"`
}

// Position is the portfolio view of a single instrument with an open position.
type Position struct {
	Name           string                               `json:"name"`
	Ticker         string                               `json:"ticker"`
	Figi           string                               `json:"figi"`
	Currency       string                               `json:"currency"`
	Type           instruments.InstrumentType           `json:"type"`
	PaymentsByType map[operations.OperationType]float64 `json:"paymentsByType"`
	TotalQuantity  int64                                `json:"totalQuantity"`
	TotalPayment   float64                              `json:"totalPayment"`
	Purchases      Purchases                            `json:"purchases"`
	Operations     []operations.Operation               `json:"operations"`
}
