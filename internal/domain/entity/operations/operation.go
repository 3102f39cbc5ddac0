package operations

import "time"

// OperationType names an account event kind using the broker's historical
// vocabulary (Buy, BuyCard, Sell, Dividend, ...).
type OperationType string

const (
	TypeBuy               OperationType = "Buy"
	TypeBuyCard           OperationType = "BuyCard"
	TypeSell              OperationType = "Sell"
	TypeSellCard          OperationType = "SellCard"
	TypeDividend          OperationType = "Dividend"
	TypeCoupon            OperationType = "Coupon"
	TypeBrokerCommission  OperationType = "BrokerCommission"
	TypeServiceCommission OperationType = "ServiceCommission"
	TypeMarginCommission  OperationType = "MarginCommission"
	TypeTax               OperationType = "Tax"
	TypeTaxDividend       OperationType = "TaxDividend"
	TypeTaxCoupon         OperationType = "TaxCoupon"
	TypeTaxBack           OperationType = "TaxBack"
	TypeRepayment         OperationType = "Repayment"
	TypePartRepayment     OperationType = "PartRepayment"
	TypePayIn             OperationType = "PayIn"
	TypePayOut            OperationType = "PayOut"
	TypeSecurityIn        OperationType = "SecurityIn"
	TypeSecurityOut       OperationType = "SecurityOut"
	TypeUnspecified       OperationType = "Unspecified"
)

// IsPurchase reports whether the operation type opens or increases a position
// through a purchase.
func (t OperationType) IsPurchase() bool {
	return t == TypeBuy || t == TypeBuyCard
}

type OperationStatus string

const (
	StatusDone     OperationStatus = "Done"
	StatusDecline  OperationStatus = "Decline"
	StatusProgress OperationStatus = "Progress"
)

// Operation is a settled or attempted account event. Instrument holds the
// store identifier of the linked instrument and stays nil until the backfill
// pass of an import has run.
type Operation struct {
	ID                string          `json:"_id,omitempty"`
	ProviderID        string          `json:"id"`
	ParentOperationID string          `json:"parentOperationId,omitempty"`
	Type              OperationType   `json:"operationType"`
	Status            OperationStatus `json:"status"`
	Payment           float64         `json:"payment"`
	Price             float64         `json:"price"`
	Currency          string          `json:"currency"`
	Quantity          int64           `json:"quantity"`
	QuantityExecuted  int64           `json:"quantityExecuted"`
	Figi              string          `json:"figi,omitempty"`
	InstrumentType    string          `json:"instrumentType,omitempty"`
	Date              time.Time       `json:"date"`
	Instrument        *string         `json:"instrument"`
}

func (o Operation) IsDone() bool {
	return o.Status == StatusDone
}

// Filter narrows a listing of operations. Zero value selects everything.
type Filter struct {
	Figi   string
	Status OperationStatus
}
