package tinkoff

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"investhistory/internal/domain/entity/instruments"
	"investhistory/internal/domain/entity/marketdata"
	"investhistory/internal/domain/entity/operations"

	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

var operationTypes = map[string]operations.OperationType{
	"OPERATION_TYPE_UNSPECIFIED":         operations.TypeUnspecified,
	"OPERATION_TYPE_BUY":                 operations.TypeBuy,
	"OPERATION_TYPE_BUY_MARGIN":          operations.TypeBuy,
	"OPERATION_TYPE_BUY_CARD":            operations.TypeBuyCard,
	"OPERATION_TYPE_SELL":                operations.TypeSell,
	"OPERATION_TYPE_SELL_MARGIN":         operations.TypeSell,
	"OPERATION_TYPE_SELL_CARD":           operations.TypeSellCard,
	"OPERATION_TYPE_DIVIDEND":            operations.TypeDividend,
	"OPERATION_TYPE_DIV_EXT":             operations.TypeDividend,
	"OPERATION_TYPE_COUPON":              operations.TypeCoupon,
	"OPERATION_TYPE_BROKER_FEE":          operations.TypeBrokerCommission,
	"OPERATION_TYPE_SERVICE_FEE":         operations.TypeServiceCommission,
	"OPERATION_TYPE_MARGIN_FEE":          operations.TypeMarginCommission,
	"OPERATION_TYPE_TAX":                 operations.TypeTax,
	"OPERATION_TYPE_DIVIDEND_TAX":        operations.TypeTaxDividend,
	"OPERATION_TYPE_BOND_TAX":            operations.TypeTaxCoupon,
	"OPERATION_TYPE_TAX_CORRECTION":      operations.TypeTaxBack,
	"OPERATION_TYPE_BOND_REPAYMENT_FULL": operations.TypeRepayment,
	"OPERATION_TYPE_BOND_REPAYMENT":      operations.TypePartRepayment,
	"OPERATION_TYPE_INPUT":               operations.TypePayIn,
	"OPERATION_TYPE_OUTPUT":              operations.TypePayOut,
	"OPERATION_TYPE_INPUT_SECURITIES":    operations.TypeSecurityIn,
	"OPERATION_TYPE_OUTPUT_SECURITIES":   operations.TypeSecurityOut,
}

var operationStatuses = map[string]operations.OperationStatus{
	"OPERATION_STATE_EXECUTED": operations.StatusDone,
	"OPERATION_STATE_CANCELED": operations.StatusDecline,
	"OPERATION_STATE_PROGRESS": operations.StatusProgress,
}

// NormalizeOperation maps a provider operation to the stored shape. The
// instrument back-reference is left empty for the link pass.
func NormalizeOperation(msg *pb.Operation) (operations.Operation, error) {
	if msg == nil {
		return operations.Operation{}, errors.New("operation payload is nil")
	}
	date, err := toTime(msg.GetDate())
	if err != nil {
		return operations.Operation{}, fmt.Errorf("operation %s date: %w", msg.GetId(), err)
	}

	return operations.Operation{
		ProviderID:        msg.GetId(),
		ParentOperationID: msg.GetParentOperationId(),
		Type:              operationType(msg.GetOperationType()),
		Status:            operationStatus(msg.GetState()),
		Payment:           moneyToFloat(msg.GetPayment()),
		Price:             moneyToFloat(msg.GetPrice()),
		Currency:          strings.ToLower(msg.GetCurrency()),
		Quantity:          msg.GetQuantity(),
		QuantityExecuted:  msg.GetQuantity() - msg.GetQuantityRest(),
		Figi:              strings.TrimSpace(msg.GetFigi()),
		InstrumentType:    msg.GetInstrumentType(),
		Date:              date,
	}, nil
}

func NormalizeInstrument(msg *pb.Instrument) instruments.Instrument {
	return instruments.Instrument{
		Figi:              strings.TrimSpace(msg.GetFigi()),
		Ticker:            msg.GetTicker(),
		Name:              msg.GetName(),
		Currency:          strings.ToLower(msg.GetCurrency()),
		Type:              instruments.InstrumentType(msg.GetInstrumentType()),
		Lot:               msg.GetLot(),
		ClassCode:         msg.GetClassCode(),
		Isin:              msg.GetIsin(),
		MinPriceIncrement: quotationToFloat(msg.GetMinPriceIncrement()),
	}
}

func NormalizeCandle(figi string, interval marketdata.CandleInterval, msg *pb.HistoricCandle) (marketdata.Candle, error) {
	if msg == nil {
		return marketdata.Candle{}, errors.New("candle payload is nil")
	}
	ts, err := toTime(msg.GetTime())
	if err != nil {
		return marketdata.Candle{}, fmt.Errorf("candle %s %s time: %w", figi, interval, err)
	}
	return marketdata.Candle{
		Figi:       figi,
		Interval:   interval,
		Open:       quotationToFloat(msg.GetOpen()),
		High:       quotationToFloat(msg.GetHigh()),
		Low:        quotationToFloat(msg.GetLow()),
		Close:      quotationToFloat(msg.GetClose()),
		Volume:     msg.GetVolume(),
		Time:       ts,
		IsComplete: msg.GetIsComplete(),
	}, nil
}

func operationType(t pb.OperationType) operations.OperationType {
	if mapped, ok := operationTypes[t.String()]; ok {
		return mapped
	}
	return operations.OperationType(strings.TrimPrefix(t.String(), "OPERATION_TYPE_"))
}

func operationStatus(s pb.OperationState) operations.OperationStatus {
	if mapped, ok := operationStatuses[s.String()]; ok {
		return mapped
	}
	return operations.OperationStatus(strings.TrimPrefix(s.String(), "OPERATION_STATE_"))
}

func toCandleInterval(interval marketdata.CandleInterval) (pb.CandleInterval, error) {
	switch interval {
	case marketdata.IntervalDay:
		return pb.CandleInterval_CANDLE_INTERVAL_DAY, nil
	case marketdata.IntervalWeek:
		return pb.CandleInterval_CANDLE_INTERVAL_WEEK, nil
	case marketdata.IntervalMonth:
		return pb.CandleInterval_CANDLE_INTERVAL_MONTH, nil
	default:
		return pb.CandleInterval_CANDLE_INTERVAL_UNSPECIFIED, fmt.Errorf("unsupported candle interval: %s", interval)
	}
}

func toTime(ts *timestamppb.Timestamp) (time.Time, error) {
	if ts == nil {
		return time.Time{}, fmt.Errorf("%w: missing", ErrMalformedTimestamp)
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
	}
	return ts.AsTime().UTC(), nil
}

func unitsNano(units int64, nano int32) decimal.Decimal {
	return decimal.New(units, 0).Add(decimal.New(int64(nano), -9))
}

func moneyToFloat(m *pb.MoneyValue) float64 {
	if m == nil {
		return 0
	}
	return unitsNano(m.GetUnits(), m.GetNano()).InexactFloat64()
}

func quotationToFloat(q *pb.Quotation) float64 {
	if q == nil {
		return 0
	}
	return unitsNano(q.GetUnits(), q.GetNano()).InexactFloat64()
}
