package app

import (
	"log"

	"ETFScreener/internal/collector"
	"ETFScreener/internal/config"
	"ETFScreener/internal/etf"
	"ETFScreener/internal/metrics"
	"ETFScreener/internal/notifier"
	"ETFScreener/internal/recorder"
)

// NewFetcher builds the market data provider selected by provider.source.
func NewFetcher(cfg *config.Config) collector.Fetcher {
	p := cfg.Provider
	switch p.Source {
	case config.SourceMock:
		return &collector.MockFetcher{Price: 100}
	case config.SourceREST:
		return collector.NewRESTFetcher(p.BaseURL, p.APIKey, p.Proxy, p.Timeout)
	default:
		return collector.NewYahooFetcher(collector.YahooConfig{
			ChartURL:   p.ChartURL,
			QuoteURL:   p.QuoteURL,
			CookieURL:  p.CookieURL,
			UserAgent:  p.UserAgent,
			Proxy:      p.Proxy,
			Timeout:    p.Timeout,
			RPS:        p.RPS,
			Burst:      p.Burst,
			MaxRetries: p.MaxRetries,
			BaseDelay:  p.BaseDelay,
			MaxDelay:   p.MaxDelay,
		})
	}
}

// NewUniverse returns the file-backed universe when batch.universe_file is
// set and the built-in list otherwise.
func NewUniverse(cfg *config.Config) etf.UniverseSource {
	if cfg.Batch.UniverseFile != "" {
		return etf.FileUniverse{Path: cfg.Batch.UniverseFile}
	}
	return etf.StaticUniverse(etf.Universe())
}

// NewCollector wires fetcher, universe and batch settings. m may be nil.
func NewCollector(cfg *config.Config, m *metrics.Metrics) *collector.Collector {
	fetcher := NewFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, NewUniverse(cfg))
	col.Concurrency = cfg.Batch.Concurrency
	col.LookbackDays = cfg.Batch.LookbackDays
	col.FetchTimeout = cfg.Batch.FetchTimeout
	col.Metrics = m
	return col
}

// NewRecorder opens the SQLite audit log, falling back to a no-op recorder
// when no path is configured or the database cannot be opened.
func NewRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// NewNotifier returns the Telegram notifier when credentials are set.
func NewNotifier(cfg *config.Config) (notifier.Notifier, *notifier.TelegramNotifier) {
	if !cfg.Telegram.Enabled() {
		return notifier.NoopNotifier{}, nil
	}
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Provider.Proxy)
	return tn, tn
}
