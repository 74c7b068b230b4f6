package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/scanner"
)

func TestFormatFunding(t *testing.T) {
	cases := []struct {
		rate string
		want string
	}{
		{"0.0001", "0.0100%"},
		{"0.003", "0.3000%"},
		{"-0.0002", "-0.0200%"},
		{"0", "0.0000%"},
	}
	for _, tc := range cases {
		if got := FormatFunding(decimal.RequireFromString(tc.rate)); got != tc.want {
			t.Fatalf("FormatFunding(%s) = %s, want %s", tc.rate, got, tc.want)
		}
	}
}

func TestFormatNextFunding(t *testing.T) {
	if got := FormatNextFunding(0); got != "N/A" {
		t.Fatalf("zero timestamp should render N/A, got %s", got)
	}
	ts := time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC).UnixMilli()
	if got := FormatNextFunding(ts); got != "16:00 UTC" {
		t.Fatalf("got %s, want 16:00 UTC", got)
	}
}

func TestTradeURL(t *testing.T) {
	if got := TradeURL("Binance", "BTCUSDT"); got != "https://www.binance.com/en/futures/BTCUSDT" {
		t.Fatalf("unexpected Binance URL %s", got)
	}
	if got := TradeURL("Delta", "BTCUSDT"); got != "https://www.india.delta.exchange/app/futures/trade/BTC/USD" {
		t.Fatalf("unexpected Delta URL %s", got)
	}
	if got := TradeURL("CoinDCX", "BTCUSDT"); got != "https://coindcx.com/futures-trading/B-BTC_USDT" {
		t.Fatalf("unexpected CoinDCX URL %s", got)
	}
	if got := TradeURL("Unknown", "BTCUSDT"); got != "#" {
		t.Fatalf("unknown exchange should link nowhere, got %s", got)
	}
}

func buildResult(t *testing.T) ScanResult {
	t.Helper()

	sets := []scanner.RecordSet{
		{Exchange: "Binance", Records: []scanner.RawFunding{
			{Symbol: "BTCUSDT", FundingRecord: scanner.FundingRecord{
				Rate:      decimal.RequireFromString("0.0010"),
				MarkPrice: decimal.RequireFromString("65000"),
			}},
		}},
		{Exchange: "Bybit", Records: []scanner.RawFunding{
			{Symbol: "BTCUSDT", FundingRecord: scanner.FundingRecord{
				Rate:      decimal.RequireFromString("0.0070"),
				MarkPrice: decimal.RequireFromString("64800"),
			}},
		}},
	}
	reg := scanner.BuildRegistry(sets, scanner.NewNormalizer(), zerolog.Nop())
	threshold := decimal.RequireFromString("0.003")
	ranked := scanner.Rank(scanner.Detect(reg, threshold))

	scanTime := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	return Assemble(scanTime, threshold, reg, ranked, false)
}

func TestAssemble(t *testing.T) {
	result := buildResult(t)

	if result.ScanTime != "2024-05-01 12:30 UTC" {
		t.Fatalf("unexpected scan time %s", result.ScanTime)
	}
	if result.Threshold != "0.3000%" {
		t.Fatalf("unexpected threshold %s", result.Threshold)
	}
	if result.Count != 1 || len(result.Opportunities) != 1 {
		t.Fatalf("expected one opportunity, got %d", result.Count)
	}

	opp := result.Opportunities[0]
	if opp.DiffFmt != "0.6000%" {
		t.Fatalf("unexpected diff format %s", opp.DiffFmt)
	}
	if opp.ShortURL != TradeURL("Bybit", "BTCUSDT") {
		t.Fatalf("short URL should point at the short exchange, got %s", opp.ShortURL)
	}
	if opp.NextFunding1 != "N/A" {
		t.Fatalf("missing next funding should render N/A, got %s", opp.NextFunding1)
	}
}

func TestWriteJSON(t *testing.T) {
	result := buildResult(t)

	var buf bytes.Buffer
	if err := result.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["count"].(float64) != 1 {
		t.Fatalf("unexpected count in JSON: %v", decoded["count"])
	}
	// decimal fields marshal as quoted strings
	if decoded["threshold_raw"].(string) != "0.003" {
		t.Fatalf("threshold_raw should be the raw fraction, got %v", decoded["threshold_raw"])
	}
}

func TestRenderText(t *testing.T) {
	result := buildResult(t)

	var buf bytes.Buffer
	if err := result.RenderText(&buf); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"FUNDING RATE ARBITRAGE SCANNER",
		"Found 1 opportunities:",
		"Short Bybit / Long Binance",
		"Min diff threshold: 0.3000%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTextEmpty(t *testing.T) {
	reg := scanner.BuildRegistry(nil, scanner.NewNormalizer(), zerolog.Nop())
	result := Assemble(time.Now(), decimal.RequireFromString("0.003"), reg, nil, true)

	var buf bytes.Buffer
	if err := result.RenderText(&buf); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No funding rate differences found above threshold.") {
		t.Fatal("empty scan should say so")
	}
}
