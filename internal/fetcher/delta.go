package fetcher

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

const deltaTickersPath = "/v2/tickers"

// Delta reads the Delta Exchange India tickers feed. The feed quotes
// funding_rate in percentage form (0.01 means 0.01%), so the adapter
// divides by 100 to put rates on the common raw-fraction scale. The ticker
// carries no next funding time; records report 0 for it.
type Delta struct {
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewDelta constructs a Delta India funding adapter.
func NewDelta(opts Options, logger zerolog.Logger) *Delta {
	return &Delta{
		logger:  logger.With().Str("component", "delta_fetcher").Logger(),
		client:  newHTTPClient(opts.Timeout),
		baseURL: resolveBaseURL(opts.BaseURL, "https://api.india.delta.exchange"),
	}
}

// Name identifies the exchange within the registry.
func (d *Delta) Name() string { return "Delta" }

type deltaTickersResponse struct {
	Result []deltaTicker `json:"result"`
}

type deltaTicker struct {
	Symbol       string      `json:"symbol"`
	ContractType string      `json:"contract_type"`
	FundingRate  json.Number `json:"funding_rate"`
	MarkPrice    json.Number `json:"mark_price"`
}

// FetchFunding returns the current funding snapshot. Only perpetual futures
// carry funding rates; every other contract type is skipped.
func (d *Delta) FetchFunding(ctx context.Context) ([]scanner.RawFunding, error) {
	var payload deltaTickersResponse
	if err := getJSON(ctx, d.client, d.baseURL+deltaTickersPath, &payload); err != nil {
		return nil, err
	}

	records := make([]scanner.RawFunding, 0, len(payload.Result))
	for _, row := range payload.Result {
		if row.ContractType != "perpetual_futures" || row.FundingRate == "" {
			continue
		}
		reported, err := decimal.NewFromString(row.FundingRate.String())
		if err != nil {
			continue
		}
		records = append(records, scanner.RawFunding{
			Symbol: row.Symbol,
			FundingRecord: scanner.FundingRecord{
				Rate:      reported.Div(decHundred),
				MarkPrice: parsePrice(row.MarkPrice.String()),
			},
		})
	}

	d.logger.Debug().Int("instruments", len(records)).Msg("delta funding snapshot loaded")
	return records, nil
}

var decHundred = decimal.NewFromInt(100)

var _ FundingFetcher = (*Delta)(nil)
