package alerting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/report"
)

func sampleNotification() Notification {
	return Notification{
		Result: report.ScanResult{
			ScanTime:  "2024-05-01 12:30 UTC",
			Threshold: "0.3000%",
			Count:     2,
			Opportunities: []report.Opportunity{
				{Symbol: "BTCUSDT", DiffFmt: "0.6000%", ShortExchange: "Bybit", LongExchange: "Binance", SpreadPct: decimal.RequireFromString("0.308")},
				{Symbol: "ETHUSDT", DiffFmt: "0.4000%", ShortExchange: "Delta", LongExchange: "Binance", SpreadPct: decimal.Zero},
			},
		},
		TopN: 1,
	}
}

func TestTelegramNotifierSuccess(t *testing.T) {
	received := make(map[string]string)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "sendMessage") {
			t.Fatalf("路径应包含 sendMessage, 实际 %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("解析请求体失败: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())

	if err := notifier.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("Telegram Notify 应成功: %v", err)
	}

	if received["chat_id"] != "chat" {
		t.Fatalf("chat_id 不正确: %#v", received)
	}
	text := received["text"]
	if !strings.Contains(text, "BTCUSDT") || !strings.Contains(text, "Short Bybit") {
		t.Fatalf("text 应包含头部机会: %s", text)
	}
	if strings.Contains(text, "ETHUSDT") {
		t.Fatalf("TopN=1 时不应列出第二条: %s", text)
	}
	if !strings.Contains(text, "and 1 more") {
		t.Fatalf("应提示剩余条数: %s", text)
	}
}

func TestTelegramNotifierError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false})
	}))
	defer srv.Close()

	notifier := NewTelegramNotifier("token", "chat", srv.URL, time.Second, testLogger())

	if err := notifier.Notify(context.Background(), sampleNotification()); err == nil {
		t.Fatal("ok=false 应报错")
	}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
