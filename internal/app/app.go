package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"funding-rate-scanner/internal/alerting"
	"funding-rate-scanner/internal/config"
	"funding-rate-scanner/internal/fetcher"
	"funding-rate-scanner/internal/scheduler"
	"funding-rate-scanner/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

// ScanOptions hold the per-invocation scan parameters.
type ScanOptions struct {
	// Threshold is the raw user input; non-numeric values fall back to the
	// configured default rather than failing the run.
	Threshold string
	NoDelta   bool
	JSON      bool
}

// WatchOptions configure the periodic rescanning loop.
type WatchOptions struct {
	Threshold string
	NoDelta   bool
}

// ExportOptions configure chart/CSV export of one scan.
type ExportOptions struct {
	Threshold string
	NoDelta   bool
	PNGPath   string
	CSVPath   string
	MaxOpps   int
}

func (a *App) newFetchers(includeDelta bool) []fetcher.FundingFetcher {
	ex := a.Config.Exchanges

	var fetchers []fetcher.FundingFetcher
	if ex.Binance.Enabled {
		fetchers = append(fetchers, fetcher.NewBinance(fetcher.Options{
			BaseURL: ex.Binance.BaseURL,
			Timeout: ex.Binance.RequestTimeout,
		}, a.Logger))
	}
	if ex.Bybit.Enabled {
		fetchers = append(fetchers, fetcher.NewBybit(fetcher.Options{
			BaseURL: ex.Bybit.BaseURL,
			Timeout: ex.Bybit.RequestTimeout,
		}, a.Logger))
	}
	if ex.CoinDCX.Enabled {
		fetchers = append(fetchers, fetcher.NewCoinDCX(fetcher.Options{
			BaseURL: ex.CoinDCX.BaseURL,
			Timeout: ex.CoinDCX.RequestTimeout,
		}, a.Logger))
	}
	if includeDelta && ex.Delta.Enabled {
		fetchers = append(fetchers, fetcher.NewDelta(fetcher.Options{
			BaseURL: ex.Delta.BaseURL,
			Timeout: ex.Delta.RequestTimeout,
		}, a.Logger))
	}
	return fetchers
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// resolveThreshold parses the CLI threshold override, falling back to the
// configured default on empty, non-numeric, or negative input. A bad
// threshold never fails the run.
func (a *App) resolveThreshold(raw string) decimal.Decimal {
	fallback := decimal.NewFromFloat(a.Config.Scan.Threshold)
	if raw == "" {
		return fallback
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.IsNegative() {
		a.Logger.Warn().Str("threshold", raw).
			Str("default", fallback.String()).
			Msg("invalid threshold value, using configured default")
		return fallback
	}
	return parsed
}

// Scan runs one snapshot scan and renders the result. Exit is always clean
// on a completed scan; individual exchange failures only shrink the data.
func (a *App) Scan(ctx context.Context, opts ScanOptions) error {
	threshold := a.resolveThreshold(opts.Threshold)
	fetchers := a.newFetchers(!opts.NoDelta)

	svc := service.New(fetchers, threshold, a.Logger)
	result := svc.Scan(ctx)

	if opts.JSON {
		return result.WriteJSON(os.Stdout)
	}
	return result.RenderText(os.Stdout)
}

// Watch reruns the snapshot scan on an aligned interval until interrupted.
// Each tick is an independent single-shot scan; alerting, when enabled,
// fires on ticks that surface at least one opportunity.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	threshold := a.resolveThreshold(opts.Threshold)
	fetchers := a.newFetchers(!opts.NoDelta)
	svc := service.New(fetchers, threshold, a.Logger)

	var notifier alerting.Notifier
	if a.Config.Alerting.Enabled {
		notifier = a.newNotifier()
		if notifier == nil {
			a.Logger.Warn().Msg("alerting enabled but no channel configured")
		}
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToInterval,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().Msg("starting watch mode")
	err := sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		result := svc.Scan(ctx)
		if notifier != nil && result.Count > 0 {
			note := alerting.Notification{Result: result, TopN: a.Config.Scan.TopN}
			if err := notifier.Notify(ctx, note); err != nil {
				a.Logger.Error().Err(err).Msg("failed to dispatch alert")
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch stopped")
	return nil
}
