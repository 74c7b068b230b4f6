package fetcher

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

const coindcxFuturesPricesPath = "/market_data/v3/current_prices/futures/rt"

// CoinDCX reads the public futures realtime prices feed. Pairs are keyed as
// B-BTC_USDT; fr is the funding rate as a raw decimal fraction and mp the
// mark price. The feed carries no next funding time.
type CoinDCX struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewCoinDCX constructs a CoinDCX funding adapter.
func NewCoinDCX(opts Options, logger zerolog.Logger) *CoinDCX {
	return &CoinDCX{
		logger:  logger.With().Str("component", "coindcx_fetcher").Logger(),
		client:  newHTTPClient(opts.Timeout),
		baseURL: resolveBaseURL(opts.BaseURL, "https://public.coindcx.com"),
	}
}

// Name identifies the exchange within the registry.
func (c *CoinDCX) Name() string { return "CoinDCX" }

type coindcxPricesResponse struct {
	Prices map[string]coindcxPrice `json:"prices"`
}

type coindcxPrice struct {
	FundingRate json.Number `json:"fr"`
	MarkPrice   json.Number `json:"mp"`
}

// FetchFunding returns the current funding snapshot, skipping pairs with no
// published funding rate.
func (c *CoinDCX) FetchFunding(ctx context.Context) ([]scanner.RawFunding, error) {
	var payload coindcxPricesResponse
	if err := getJSON(ctx, c.client, c.baseURL+coindcxFuturesPricesPath, &payload); err != nil {
		return nil, err
	}

	records := make([]scanner.RawFunding, 0, len(payload.Prices))
	for pair, row := range payload.Prices {
		if row.FundingRate == "" {
			continue
		}
		rate, err := decimal.NewFromString(row.FundingRate.String())
		if err != nil {
			continue
		}
		records = append(records, scanner.RawFunding{
			Symbol: pair,
			FundingRecord: scanner.FundingRecord{
				Rate:      rate,
				MarkPrice: parsePrice(row.MarkPrice.String()),
			},
		})
	}

	c.logger.Debug().Int("instruments", len(records)).Msg("coindcx funding snapshot loaded")
	return records, nil
}

var _ FundingFetcher = (*CoinDCX)(nil)
