package fetcher

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

const binancePremiumIndexPath = "/fapi/v1/premiumIndex"

// Binance reads the USD-M futures premium index feed. lastFundingRate is
// already a raw decimal fraction, so no scale conversion applies.
type Binance struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewBinance constructs a Binance funding adapter.
func NewBinance(opts Options, logger zerolog.Logger) *Binance {
	return &Binance{
		logger:  logger.With().Str("component", "binance_fetcher").Logger(),
		client:  newHTTPClient(opts.Timeout),
		baseURL: resolveBaseURL(opts.BaseURL, "https://fapi.binance.com"),
	}
}

// Name identifies the exchange within the registry.
func (b *Binance) Name() string { return "Binance" }

type binancePremiumIndex struct {
	Symbol          string `json:"symbol"`
	MarkPrice       string `json:"markPrice"`
	LastFundingRate string `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"`
}

// FetchFunding returns the current funding snapshot. Dated contracts carry
// an underscore delimiter in the symbol and are skipped, as are inactive
// rows without a next funding time.
func (b *Binance) FetchFunding(ctx context.Context) ([]scanner.RawFunding, error) {
	var rows []binancePremiumIndex
	if err := getJSON(ctx, b.client, b.baseURL+binancePremiumIndexPath, &rows); err != nil {
		return nil, err
	}

	records := make([]scanner.RawFunding, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(row.Symbol, "_") || row.NextFundingTime == 0 {
			continue
		}
		rate, err := decimal.NewFromString(row.LastFundingRate)
		if err != nil {
			continue
		}
		records = append(records, scanner.RawFunding{
			Symbol: row.Symbol,
			FundingRecord: scanner.FundingRecord{
				Rate:            rate,
				NextFundingTime: row.NextFundingTime,
				MarkPrice:       parsePrice(row.MarkPrice),
			},
		})
	}

	b.logger.Debug().Int("instruments", len(records)).Msg("binance funding snapshot loaded")
	return records, nil
}

// parsePrice tolerates missing or malformed prices, substituting zero.
func parsePrice(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

var _ FundingFetcher = (*Binance)(nil)
