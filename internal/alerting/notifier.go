package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"funding-rate-scanner/internal/report"
)

// Notification 封装一次扫描的告警上下文。
type Notification struct {
	Result report.ScanResult
	// TopN bounds how many opportunities the message lists.
	TopN int
}

// Notifier 定义告警输送接口。
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier 通过 Telegram Bot API 推送消息。
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier 构造 Telegram 告警器。
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify 调用 sendMessage API 推送文本。
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram 响应码异常: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram 返回 ok=false")
		}
	}

	n.logger.Info().
		Int("opportunities", note.Result.Count).
		Str("scan_time", note.Result.ScanTime).
		Msg("告警已发送 (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	result := note.Result

	builder := strings.Builder{}
	builder.WriteString("[Funding Arb Alert]\n")
	builder.WriteString(fmt.Sprintf("Time: %s\n", result.ScanTime))
	builder.WriteString(fmt.Sprintf("Threshold: %s\n", result.Threshold))
	builder.WriteString(fmt.Sprintf("Opportunities: %d\n", result.Count))

	limit := note.TopN
	if limit <= 0 || limit > len(result.Opportunities) {
		limit = len(result.Opportunities)
	}
	for i := 0; i < limit; i++ {
		opp := result.Opportunities[i]
		builder.WriteString(fmt.Sprintf("%d. %s diff %s / Short %s, Long %s (spread %s%%)\n",
			i+1, opp.Symbol, opp.DiffFmt, opp.ShortExchange, opp.LongExchange, opp.SpreadPct.StringFixed(4)))
	}
	if limit < len(result.Opportunities) {
		builder.WriteString(fmt.Sprintf("and %d more\n", len(result.Opportunities)-limit))
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
