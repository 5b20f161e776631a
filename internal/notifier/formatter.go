package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"ETFScreener/internal/model"
)

// maxListedFailures caps the dropped tickers spelled out in a summary.
const maxListedFailures = 5

// FormatBatchSummary formats a completed batch into a Telegram message,
// listing the top most liquid funds.
func FormatBatchSummary(res *model.BatchResult, top int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ETF Screener</b> | %s\n\n", res.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Records: %d/%d", res.Count(), res.Universe))
	if n := len(res.Failures); n > 0 {
		b.WriteString(fmt.Sprintf(" (%d dropped)", n))
	}
	b.WriteString("\n")

	byAsset := map[model.AssetClass]int{}
	trending := 0
	for i := range res.Records {
		byAsset[res.Records[i].Asset]++
		if res.Records[i].InTrend() {
			trending++
		}
	}
	b.WriteString(fmt.Sprintf("Equity %d | Fixed Income %d | Commodity %d\n",
		byAsset[model.AssetEquity], byAsset[model.AssetFixedIncome], byAsset[model.AssetCommodity]))
	b.WriteString(fmt.Sprintf("In trend: %d\n", trending))

	if top > 0 && len(res.Records) > 0 {
		ranked := make([]model.ETFRecord, len(res.Records))
		copy(ranked, res.Records)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Lwowski > ranked[j].Lwowski })
		if len(ranked) > top {
			ranked = ranked[:top]
		}
		b.WriteString("\n💧 <b>Most liquid:</b>\n")
		for _, rec := range ranked {
			b.WriteString(fmt.Sprintf("  %s %d | RSI %d | %.2f\n", rec.Ticker, rec.Lwowski, rec.RSI, rec.Price))
		}
	}

	if n := len(res.Failures); n > 0 {
		failed := res.FailedTickers()
		b.WriteString(fmt.Sprintf("\n⚠️ Dropped: %s", strings.Join(failed[:min(n, maxListedFailures)], ", ")))
		if n > maxListedFailures {
			b.WriteString(fmt.Sprintf(" and %d more", n-maxListedFailures))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRecord formats a single ETF for a command reply.
func FormatRecord(rec *model.ETFRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>%s</b> %s\n", rec.Ticker, html.EscapeString(rec.Name)))
	b.WriteString(fmt.Sprintf("Asset: %s | Expense: %.2f%%\n", rec.Asset, rec.Expense))
	b.WriteString(fmt.Sprintf("Price: %.2f | Prev: %.2f | 52w high: %.2f (%.1f%%)\n",
		rec.Price, rec.PrevClose, rec.Week52High, rec.Near52wPct))
	b.WriteString(fmt.Sprintf("RSI14: %d | Volume: %.1fM | AUM: %s\n", rec.RSI, rec.Volume, rec.AUM))
	b.WriteString(fmt.Sprintf("Lwowski: %d\n", rec.Lwowski))
	b.WriteString(fmt.Sprintf("Trend: near high %s | 50>150 %s | 150>200 %s | 200 rising %s\n",
		mark(rec.CloseAbove52w), mark(rec.SMA50gt150), mark(rec.SMA150gt200), mark(rec.SMA200Slope)))
	return b.String()
}

// FormatBatchError formats a structural batch failure.
func FormatBatchError(err error) string {
	return fmt.Sprintf("❌ <b>ETF batch failed</b>\n\n%s", html.EscapeString(err.Error()))
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
