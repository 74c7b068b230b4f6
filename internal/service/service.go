package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"funding-rate-scanner/internal/fetcher"
	"funding-rate-scanner/internal/report"
	"funding-rate-scanner/internal/scanner"
)

// Service runs snapshot scans: fetch every configured exchange, normalize
// into the registry, detect and rank opportunities, assemble the report.
// The post-fetch pipeline is pure, synchronous computation; only the
// adapter fetches run concurrently, as a latency optimization.
type Service struct {
	fetchers  []fetcher.FundingFetcher
	norm      *scanner.Normalizer
	threshold decimal.Decimal
	logger    zerolog.Logger
}

// New constructs the scan service.
func New(fetchers []fetcher.FundingFetcher, threshold decimal.Decimal, logger zerolog.Logger) *Service {
	return &Service{
		fetchers:  fetchers,
		norm:      scanner.NewNormalizer(),
		threshold: threshold,
		logger:    logger.With().Str("component", "service").Logger(),
	}
}

// Scan performs one snapshot scan. A failing adapter degrades its exchange
// to zero instruments rather than aborting: even with every adapter failing
// the result is a valid, empty report.
func (s *Service) Scan(ctx context.Context) report.ScanResult {
	sets := s.fetchAll(ctx)

	reg := scanner.BuildRegistry(sets, s.norm, s.logger)
	ranked := scanner.Rank(scanner.Detect(reg, s.threshold))

	result := report.Assemble(time.Now().UTC(), s.threshold, reg, ranked, s.includeDelta())

	s.logger.Info().
		Int("total_symbols", result.TotalSymbols).
		Int("opportunities", result.Count).
		Str("threshold", result.Threshold).
		Msg("scan complete")

	return result
}

// fetchAll loads every exchange concurrently. Slots are positional so the
// registry sees exchanges in configuration order regardless of which fetch
// finishes first. Fetch errors are downgraded to empty record sets here,
// so the group never propagates one.
func (s *Service) fetchAll(ctx context.Context) []scanner.RecordSet {
	sets := make([]scanner.RecordSet, len(s.fetchers))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.fetchers {
		g.Go(func() error {
			records, err := f.FetchFunding(gctx)
			if err != nil {
				s.logger.Error().Err(err).
					Str("exchange", f.Name()).
					Msg("fetch failed, exchange contributes no instruments this scan")
				records = nil
			}
			sets[i] = scanner.RecordSet{Exchange: f.Name(), Records: records}
			return nil
		})
	}
	_ = g.Wait()

	return sets
}

func (s *Service) includeDelta() bool {
	for _, f := range s.fetchers {
		if f.Name() == "Delta" {
			return true
		}
	}
	return false
}
