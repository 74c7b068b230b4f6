package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"funding-rate-scanner/internal/scanner"
)

const rulerWidth = 85

// WriteJSON emits the machine-readable report.
func (r ScanResult) WriteJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(r)
}

// RenderText writes the human-readable report.
func (r ScanResult) RenderText(w io.Writer) error {
	for _, ex := range sortedExchanges(r.ExchangeCounts) {
		fmt.Fprintf(w, "  %s pairs loaded: %d\n", ex, r.ExchangeCounts[ex])
	}
	fmt.Fprintf(w, "  Total unique %s symbols: %d\n\n", scanner.CanonicalQuote, r.TotalSymbols)

	ruler := strings.Repeat("=", rulerWidth)
	fmt.Fprintln(w, ruler)
	fmt.Fprintln(w, "FUNDING RATE ARBITRAGE SCANNER")
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "  Min diff threshold: %s\n", r.Threshold)
	fmt.Fprintf(w, "  Time: %s\n", r.ScanTime)
	fmt.Fprintln(w, ruler)

	if len(r.Opportunities) == 0 {
		fmt.Fprintln(w, "\nNo funding rate differences found above threshold.")
	} else {
		fmt.Fprintf(w, "\nFound %d opportunities:\n\n", r.Count)
		for i, opp := range r.Opportunities {
			fmt.Fprintf(w, "  %3d. %-20s %s vs %s\n", i+1, opp.Symbol, opp.Exchange1, opp.Exchange2)
			fmt.Fprintf(w, "       %-10s funding: %12s  price: $%s  (next: %s)\n", opp.Exchange1, opp.Rate1Fmt, opp.Price1.StringFixed(2), opp.NextFunding1)
			fmt.Fprintf(w, "       %-10s funding: %12s  price: $%s  (next: %s)\n", opp.Exchange2, opp.Rate2Fmt, opp.Price2.StringFixed(2), opp.NextFunding2)
			fmt.Fprintf(w, "       Difference:        %12s    Spread: %s%%\n", opp.DiffFmt, opp.SpreadPct.StringFixed(4))
			fmt.Fprintf(w, "       Strategy:          Short %s / Long %s\n\n", opp.ShortExchange, opp.LongExchange)
		}
	}

	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "Scan complete. %d pairs with funding diff >= %s\n", r.Count, r.Threshold)
	fmt.Fprintln(w, ruler)
	return nil
}

func sortedExchanges(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
