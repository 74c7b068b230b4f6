package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"funding-rate-scanner/internal/scanner"
)

// FundingFetcher retrieves one exchange's current funding snapshot.
// Implementations must deliver rates as raw decimal fractions on the common
// scale (0.0001 = 0.01%) and silently omit instruments without a usable
// funding rate; missing optional fields become zero values.
type FundingFetcher interface {
	Name() string
	FetchFunding(ctx context.Context) ([]scanner.RawFunding, error)
}

// Options parameterise an exchange adapter.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func resolveBaseURL(configured, fallback string) string {
	base := strings.TrimRight(configured, "/")
	if base == "" {
		return fallback
	}
	return base
}

// getJSON performs a GET against url and decodes the response body into out.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return httpError(resp.StatusCode, payload)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func httpError(status int, payload []byte) error {
	body := strings.TrimSpace(string(payload))
	if len(body) > 256 {
		body = body[:256]
	}
	if body != "" {
		return fmt.Errorf("api error (%d): %s", status, body)
	}
	return fmt.Errorf("api error (%d)", status)
}
