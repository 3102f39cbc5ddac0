package portfolio

import (
	"sort"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/operations"
	"investhistory/internal/domain/entity/portfolio"

	"github.com/shopspring/decimal"
)

// Build joins every instrument with its Done operations through the
// instrument back-reference and returns the instruments that still have an
// open position, ordered by currency, type and ticker.
func Build(items []instruments.Instrument, ops []operations.Operation) []portfolio.Position {
	byInstrument := make(map[string][]operations.Operation)
	for _, op := range ops {
		if !op.IsDone() || op.Instrument == nil {
			continue
		}
		byInstrument[*op.Instrument] = append(byInstrument[*op.Instrument], op)
	}

	positions := make([]portfolio.Position, 0)
	for _, instrument := range items {
		joined := byInstrument[instrument.ID]
		if len(joined) == 0 {
			continue
		}
		position := summarize(instrument, joined)
		if position.TotalQuantity == 0 {
			continue
		}
		positions = append(positions, position)
	}

	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.Currency != b.Currency {
			return a.Currency < b.Currency
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Ticker < b.Ticker
	})
	return positions
}

func summarize(instrument instruments.Instrument, ops []operations.Operation) portfolio.Position {
	sorted := make([]operations.Operation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	quantity, payment := tradeTotals(sorted)
	return portfolio.Position{
		Name:           instrument.Name,
		Ticker:         instrument.Ticker,
		Figi:           instrument.Figi,
		Currency:       instrument.Currency,
		Type:           instrument.Type,
		PaymentsByType: paymentsByType(sorted),
		TotalQuantity:  quantity,
		TotalPayment:   payment,
		Purchases:      purchases(sorted),
		Operations:     sorted,
	}
}

func paymentsByType(ops []operations.Operation) map[operations.OperationType]float64 {
	sums := make(map[operations.OperationType]decimal.Decimal)
	for _, op := range ops {
		sums[op.Type] = sums[op.Type].Add(decimal.NewFromFloat(op.Payment))
	}
	out := make(map[operations.OperationType]float64, len(sums))
	for opType, sum := range sums {
		out[opType] = sum.InexactFloat64()
	}
	return out
}

// SignedQuantity is the position change caused by op: money paid out buys
// quantity, money received sells it.
func SignedQuantity(op operations.Operation) int64 {
	if op.Payment > 0 {
		return -op.QuantityExecuted
	}
	return op.QuantityExecuted
}

func tradeTotals(ops []operations.Operation) (int64, float64) {
	var quantity int64
	payment := decimal.Zero
	for _, op := range ops {
		if op.QuantityExecuted <= 0 {
			continue
		}
		quantity += SignedQuantity(op)
		payment = payment.Add(decimal.NewFromFloat(op.Payment))
	}
	return quantity, payment.InexactFloat64()
}

func purchases(ops []operations.Operation) portfolio.Purchases {
	var quantity int64
	payment := decimal.Zero
	for _, op := range ops {
		if !op.Type.IsPurchase() {
			continue
		}
		quantity += op.QuantityExecuted
		payment = payment.Add(decimal.NewFromFloat(op.Payment))
	}

	result := portfolio.Purchases{
		Quantity: quantity,
		Payment:  payment.InexactFloat64(),
	}
	if quantity != 0 {
		result.AvgPriceSimple = payment.Div(decimal.NewFromInt(quantity)).Abs().InexactFloat64()
	}
	return result
}
