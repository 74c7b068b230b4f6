package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBinanceFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != binancePremiumIndexPath {
			t.Fatalf("路径应为 %s, 实际 %s", binancePremiumIndexPath, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","markPrice":"65000.10","lastFundingRate":"0.00010000","nextFundingTime":1700000000000},
			{"symbol":"BTCUSDT_240927","markPrice":"65100.00","lastFundingRate":"0.00020000","nextFundingTime":1700000000000},
			{"symbol":"ETHUSDT","markPrice":"3500.00","lastFundingRate":"0.00030000","nextFundingTime":0}
		]`))
	}))
	defer srv.Close()

	b := NewBinance(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	records, err := b.FetchFunding(context.Background())
	if err != nil {
		t.Fatalf("成功响应不应报错: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("季度合约与无结算时间的行应跳过, 实际 %d 条", len(records))
	}

	rec := records[0]
	if rec.Symbol != "BTCUSDT" {
		t.Fatalf("symbol 不正确: %s", rec.Symbol)
	}
	if !rec.Rate.Equal(decimal.RequireFromString("0.0001")) {
		t.Fatalf("rate 不正确: %s", rec.Rate)
	}
	if rec.NextFundingTime != 1700000000000 {
		t.Fatalf("nextFundingTime 不正确: %d", rec.NextFundingTime)
	}
	if !rec.MarkPrice.Equal(decimal.RequireFromString("65000.10")) {
		t.Fatalf("markPrice 不正确: %s", rec.MarkPrice)
	}
}

func TestBinanceFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewBinance(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := b.FetchFunding(context.Background()); err == nil {
		t.Fatal("HTTP 503 应返回错误")
	}
}
