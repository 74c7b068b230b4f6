package fetcher

import (
	"context"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

const bybitTickersPath = "/v5/market/tickers?category=linear"

// Bybit reads the v5 linear tickers feed. fundingRate is a raw decimal
// fraction, same scale as Binance.
type Bybit struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewBybit constructs a Bybit funding adapter.
func NewBybit(opts Options, logger zerolog.Logger) *Bybit {
	return &Bybit{
		logger:  logger.With().Str("component", "bybit_fetcher").Logger(),
		client:  newHTTPClient(opts.Timeout),
		baseURL: resolveBaseURL(opts.BaseURL, "https://api.bybit.com"),
	}
}

// Name identifies the exchange within the registry.
func (b *Bybit) Name() string { return "Bybit" }

type bybitTickersResponse struct {
	Result struct {
		List []bybitTicker `json:"list"`
	} `json:"result"`
}

type bybitTicker struct {
	Symbol          string `json:"symbol"`
	FundingRate     string `json:"fundingRate"`
	NextFundingTime string `json:"nextFundingTime"`
	MarkPrice       string `json:"markPrice"`
}

// FetchFunding returns the current funding snapshot. Tickers without a
// funding rate or next funding time are not perpetuals and are skipped.
func (b *Bybit) FetchFunding(ctx context.Context) ([]scanner.RawFunding, error) {
	var payload bybitTickersResponse
	if err := getJSON(ctx, b.client, b.baseURL+bybitTickersPath, &payload); err != nil {
		return nil, err
	}

	records := make([]scanner.RawFunding, 0, len(payload.Result.List))
	for _, row := range payload.Result.List {
		if row.FundingRate == "" || row.NextFundingTime == "" || row.NextFundingTime == "0" {
			continue
		}
		rate, err := decimal.NewFromString(row.FundingRate)
		if err != nil {
			continue
		}
		nextTime, err := strconv.ParseInt(row.NextFundingTime, 10, 64)
		if err != nil {
			continue
		}
		records = append(records, scanner.RawFunding{
			Symbol: row.Symbol,
			FundingRecord: scanner.FundingRecord{
				Rate:            rate,
				NextFundingTime: nextTime,
				MarkPrice:       parsePrice(row.MarkPrice),
			},
		})
	}

	b.logger.Debug().Int("instruments", len(records)).Msg("bybit funding snapshot loaded")
	return records, nil
}

var _ FundingFetcher = (*Bybit)(nil)
