package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

const scanTimeLayout = "2006-01-02 15:04 UTC"

// Opportunity is the report-facing view of one detected pair, carrying both
// raw values for machine consumers and formatted strings for display.
type Opportunity struct {
	Symbol        string          `json:"symbol"`
	Exchange1     string          `json:"exchange1"`
	Exchange2     string          `json:"exchange2"`
	Rate1         decimal.Decimal `json:"rate1"`
	Rate2         decimal.Decimal `json:"rate2"`
	Rate1Fmt      string          `json:"rate1_fmt"`
	Rate2Fmt      string          `json:"rate2_fmt"`
	Diff          decimal.Decimal `json:"diff"`
	DiffFmt       string          `json:"diff_fmt"`
	ShortExchange string          `json:"short_exchange"`
	LongExchange  string          `json:"long_exchange"`
	NextFunding1  string          `json:"next_funding1"`
	NextFunding2  string          `json:"next_funding2"`
	URL1          string          `json:"url1"`
	URL2          string          `json:"url2"`
	ShortURL      string          `json:"short_url"`
	LongURL       string          `json:"long_url"`
	Price1        decimal.Decimal `json:"price1"`
	Price2        decimal.Decimal `json:"price2"`
	PriceDiff     decimal.Decimal `json:"price_diff"`
	SpreadPct     decimal.Decimal `json:"spread_pct"`
}

// ScanResult aggregates one scan invocation. A new instance fully replaces
// any prior result; there is no incremental state.
type ScanResult struct {
	ScanTime       string          `json:"scan_time"`
	Threshold      string          `json:"threshold"`
	ThresholdRaw   decimal.Decimal `json:"threshold_raw"`
	ExchangeCounts map[string]int  `json:"exchange_counts"`
	TotalSymbols   int             `json:"total_symbols"`
	Opportunities  []Opportunity   `json:"opportunities"`
	Count          int             `json:"count"`
	IncludeDelta   bool            `json:"include_delta"`
}

// Assemble packages scan metadata with the ranked opportunity list.
func Assemble(scanTime time.Time, threshold decimal.Decimal, reg *scanner.Registry, ranked []scanner.Opportunity, includeDelta bool) ScanResult {
	counts := make(map[string]int)
	for _, ex := range reg.Exchanges() {
		counts[ex] = reg.Count(ex)
	}

	opportunities := make([]Opportunity, 0, len(ranked))
	for _, opp := range ranked {
		opportunities = append(opportunities, newOpportunity(opp))
	}

	return ScanResult{
		ScanTime:       scanTime.UTC().Format(scanTimeLayout),
		Threshold:      FormatFunding(threshold),
		ThresholdRaw:   threshold,
		ExchangeCounts: counts,
		TotalSymbols:   len(reg.Symbols()),
		Opportunities:  opportunities,
		Count:          len(opportunities),
		IncludeDelta:   includeDelta,
	}
}

func newOpportunity(opp scanner.Opportunity) Opportunity {
	return Opportunity{
		Symbol:        opp.Symbol,
		Exchange1:     opp.Exchange1,
		Exchange2:     opp.Exchange2,
		Rate1:         opp.Rate1,
		Rate2:         opp.Rate2,
		Rate1Fmt:      FormatFunding(opp.Rate1),
		Rate2Fmt:      FormatFunding(opp.Rate2),
		Diff:          opp.Diff,
		DiffFmt:       FormatFunding(opp.Diff),
		ShortExchange: opp.ShortExchange,
		LongExchange:  opp.LongExchange,
		NextFunding1:  FormatNextFunding(opp.NextFunding1),
		NextFunding2:  FormatNextFunding(opp.NextFunding2),
		URL1:          TradeURL(opp.Exchange1, opp.Symbol),
		URL2:          TradeURL(opp.Exchange2, opp.Symbol),
		ShortURL:      TradeURL(opp.ShortExchange, opp.Symbol),
		LongURL:       TradeURL(opp.LongExchange, opp.Symbol),
		Price1:        opp.Price1,
		Price2:        opp.Price2,
		PriceDiff:     opp.PriceDiff.Round(4),
		SpreadPct:     opp.SpreadPct.Round(4),
	}
}

// FormatFunding renders a raw decimal fraction as a percentage string,
// e.g. 0.0001 becomes "0.0100%".
func FormatFunding(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(4) + "%"
}

// FormatNextFunding renders an epoch-millisecond funding time as HH:MM UTC.
// Zero means the exchange does not publish one.
func FormatNextFunding(timestampMS int64) string {
	if timestampMS == 0 {
		return "N/A"
	}
	return time.UnixMilli(timestampMS).UTC().Format("15:04") + " UTC"
}

// TradeURL builds a direct trading link for the symbol on an exchange.
func TradeURL(exchange, symbol string) string {
	base := strings.TrimSuffix(symbol, scanner.CanonicalQuote)

	switch exchange {
	case "Binance":
		return fmt.Sprintf("https://www.binance.com/en/futures/%s", symbol)
	case "Bybit":
		return fmt.Sprintf("https://www.bybit.com/trade/usdt/%s", symbol)
	case "Delta":
		return fmt.Sprintf("https://www.india.delta.exchange/app/futures/trade/%s/USD", base)
	case "CoinDCX":
		return fmt.Sprintf("https://coindcx.com/futures-trading/B-%s_USDT", base)
	}
	return "#"
}
