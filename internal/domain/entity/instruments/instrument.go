package instruments

type InstrumentType string

const (
	ShareType    InstrumentType = "share"
	BondType     InstrumentType = "bond"
	EtfType      InstrumentType = "etf"
	CurrencyType InstrumentType = "currency"
	FutureType   InstrumentType = "futures"
	OptionType   InstrumentType = "option"
)

func (t InstrumentType) String() string {
	return string(t)
}

// Instrument is a tradable security resolved from the provider once per FIGI.
// ID is assigned by the store on first insert and never changes afterwards.
type Instrument struct {
	ID                string         `json:"_id,omitempty"`
	Figi              string         `json:"figi"`
	Ticker            string         `json:"ticker"`
	Name              string         `json:"name"`
	Currency          string         `json:"currency"`
	Type              InstrumentType `json:"type"`
	Lot               int32          `json:"lot"`
	ClassCode         string         `json:"classCode,omitempty"`
	Isin              string         `json:"isin,omitempty"`
	MinPriceIncrement float64        `json:"minPriceIncrement,omitempty"`
}

// Link pairs an instrument FIGI with the identifier the store assigned to it.
type Link struct {
	Figi string
	ID   string
}
