package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/fetcher"
	"funding-rate-scanner/internal/scanner"
)

type staticFetcher struct {
	name    string
	records []scanner.RawFunding
	err     error
}

func (s *staticFetcher) Name() string { return s.name }

func (s *staticFetcher) FetchFunding(ctx context.Context) ([]scanner.RawFunding, error) {
	return s.records, s.err
}

var _ fetcher.FundingFetcher = (*staticFetcher)(nil)

func raw(sym, rate, price string) scanner.RawFunding {
	return scanner.RawFunding{
		Symbol: sym,
		FundingRecord: scanner.FundingRecord{
			Rate:      decimal.RequireFromString(rate),
			MarkPrice: decimal.RequireFromString(price),
		},
	}
}

func TestScanEndToEnd(t *testing.T) {
	fetchers := []fetcher.FundingFetcher{
		&staticFetcher{name: "Binance", records: []scanner.RawFunding{raw("BTCUSDT", "0.0010", "65000")}},
		&staticFetcher{name: "Bybit", records: []scanner.RawFunding{raw("BTCUSDT", "0.0070", "64800")}},
	}

	svc := New(fetchers, decimal.RequireFromString("0.003"), zerolog.Nop())
	result := svc.Scan(context.Background())

	if result.Count != 1 {
		t.Fatalf("expected one opportunity, got %d", result.Count)
	}
	opp := result.Opportunities[0]
	if opp.ShortExchange != "Bybit" || opp.LongExchange != "Binance" {
		t.Fatalf("short/long = %s/%s, want Bybit/Binance", opp.ShortExchange, opp.LongExchange)
	}
	if result.TotalSymbols != 1 {
		t.Fatalf("total symbols = %d, want 1", result.TotalSymbols)
	}
	if result.ExchangeCounts["Binance"] != 1 || result.ExchangeCounts["Bybit"] != 1 {
		t.Fatalf("unexpected exchange counts %v", result.ExchangeCounts)
	}
	if result.IncludeDelta {
		t.Fatal("no Delta fetcher configured, include_delta should be false")
	}
}

func TestScanPercentScaleReconciliation(t *testing.T) {
	// A Delta-style feed reporting "0.02" percent has already been
	// converted by its adapter to 0.0002; the two venues then agree and no
	// opportunity exists at any threshold.
	fetchers := []fetcher.FundingFetcher{
		&staticFetcher{name: "Binance", records: []scanner.RawFunding{raw("BTCUSDT", "0.0002", "65000")}},
		&staticFetcher{name: "Delta", records: []scanner.RawFunding{raw("BTCUSD", "0.0002", "64990")}},
	}

	svc := New(fetchers, decimal.RequireFromString("0.000001"), zerolog.Nop())
	result := svc.Scan(context.Background())

	if result.Count != 0 {
		t.Fatalf("matching rates should emit nothing, got %d", result.Count)
	}
	if result.TotalSymbols != 1 {
		t.Fatalf("Delta BTCUSD should merge onto BTCUSDT, total symbols = %d", result.TotalSymbols)
	}
	if !result.IncludeDelta {
		t.Fatal("include_delta should reflect the Delta fetcher")
	}
}

func TestScanDegradedExchange(t *testing.T) {
	fetchers := []fetcher.FundingFetcher{
		&staticFetcher{name: "Binance", records: []scanner.RawFunding{raw("BTCUSDT", "0.0100", "65000")}},
		&staticFetcher{name: "Bybit", err: errors.New("connection refused")},
		&staticFetcher{name: "CoinDCX", records: []scanner.RawFunding{raw("B-BTC_USDT", "0.0010", "64900")}},
	}

	svc := New(fetchers, decimal.RequireFromString("0.003"), zerolog.Nop())
	result := svc.Scan(context.Background())

	if result.ExchangeCounts["Bybit"] != 0 {
		t.Fatalf("failed exchange should contribute zero instruments, got %d", result.ExchangeCounts["Bybit"])
	}
	if result.Count != 1 {
		t.Fatalf("surviving exchanges should still be compared, got %d opportunities", result.Count)
	}
}

func TestScanAllExchangesFailing(t *testing.T) {
	fetchers := []fetcher.FundingFetcher{
		&staticFetcher{name: "Binance", err: errors.New("timeout")},
		&staticFetcher{name: "Bybit", err: errors.New("timeout")},
	}

	svc := New(fetchers, decimal.RequireFromString("0.003"), zerolog.Nop())
	result := svc.Scan(context.Background())

	if result.Count != 0 || result.TotalSymbols != 0 {
		t.Fatalf("all-failing scan must yield a valid empty result, got count=%d symbols=%d", result.Count, result.TotalSymbols)
	}
	if len(result.Opportunities) != 0 {
		t.Fatal("opportunities should be empty, not nil-panic territory")
	}
}
