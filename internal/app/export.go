package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"funding-rate-scanner/internal/report"
	"funding-rate-scanner/internal/service"
)

// Export runs one snapshot scan and writes the ranked opportunities as a
// CSV and/or a PNG bar chart of the top funding-rate differentials.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	maxOpps := a.Config.ResolveMaxOpportunities(opts.MaxOpps)

	threshold := a.resolveThreshold(opts.Threshold)
	fetchers := a.newFetchers(!opts.NoDelta)
	svc := service.New(fetchers, threshold, a.Logger)

	result := svc.Scan(ctx)
	if result.Count == 0 {
		a.Logger.Info().Msg("no opportunities found, nothing to export")
		return nil
	}

	top := result.Opportunities
	if len(top) > maxOpps {
		top = top[:maxOpps]
	}
	a.Logger.Info().Int("total", result.Count).Int("exported", len(top)).Msg("exporting opportunities")

	if opts.CSVPath != "" {
		if err := writeOpportunitiesCSV(opts.CSVPath, top); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeOpportunitiesPNG(opts.PNGPath, result.ScanTime, top); err != nil {
			return err
		}
	}

	return nil
}

func writeOpportunitiesCSV(path string, opportunities []report.Opportunity) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"symbol", "exchange1", "exchange2", "rate1", "rate2", "diff", "short_exchange", "long_exchange", "price1", "price2", "price_diff", "spread_pct"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, opp := range opportunities {
		record := []string{
			opp.Symbol,
			opp.Exchange1,
			opp.Exchange2,
			opp.Rate1.String(),
			opp.Rate2.String(),
			opp.Diff.String(),
			opp.ShortExchange,
			opp.LongExchange,
			opp.Price1.String(),
			opp.Price2.String(),
			opp.PriceDiff.String(),
			opp.SpreadPct.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writeOpportunitiesPNG(path, scanTime string, opportunities []report.Opportunity) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	bars := make([]chart.Value, 0, len(opportunities))
	for _, opp := range opportunities {
		label := fmt.Sprintf("%s %s/%s", opp.Symbol, opp.ShortExchange, opp.LongExchange)
		// Bar heights are the differential in percentage points.
		bars = append(bars, chart.Value{
			Label: label,
			Value: opp.Diff.InexactFloat64() * 100,
		})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Funding rate differentials (%s)", scanTime),
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		YAxis: chart.YAxis{
			Name: "Diff (%)",
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.3f")
			},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
