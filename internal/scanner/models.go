package scanner

import (
	"github.com/shopspring/decimal"
)

// FundingRecord is one exchange's funding snapshot for a single instrument.
// Rate is a raw decimal fraction on the common scale (0.0001 = 0.01%);
// adapters are responsible for converting percentage-quoting feeds before
// records reach the registry. NextFundingTime of 0 means the exchange does
// not publish one; MarkPrice of 0 means the price was unavailable.
type FundingRecord struct {
	Rate            decimal.Decimal
	NextFundingTime int64
	MarkPrice       decimal.Decimal
}

// RawFunding pairs a funding record with the exchange's raw instrument
// identifier, before symbol normalization.
type RawFunding struct {
	Symbol string
	FundingRecord
}

// RecordSet is one adapter's output tagged with its exchange name.
type RecordSet struct {
	Exchange string
	Records  []RawFunding
}

// Opportunity describes an exchange pair whose funding rates diverge by at
// least the scan threshold for one canonical symbol. ShortExchange is the
// venue with the higher rate: long holders pay funding there, so shorting it
// and longing the other venue captures the differential.
type Opportunity struct {
	Symbol        string
	Exchange1     string
	Exchange2     string
	Rate1         decimal.Decimal
	Rate2         decimal.Decimal
	Diff          decimal.Decimal
	ShortExchange string
	LongExchange  string
	NextFunding1  int64
	NextFunding2  int64
	Price1        decimal.Decimal
	Price2        decimal.Decimal
	PriceDiff     decimal.Decimal
	SpreadPct     decimal.Decimal
}
