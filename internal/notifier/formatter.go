package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"SurgeScope/internal/model"
)

// FormatSurgeAlert formats new surge events into a Telegram message.
func FormatSurgeAlert(ticker string, info *model.CoinInfo, events []model.SurgeEvent) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🚨 <b>SurgeScope</b> | %s\n", strings.ToUpper(ticker)))
	b.WriteString(fmt.Sprintf("price $%s\n\n", humanize.CommafWithDigits(info.PriceUSD, 6)))

	for _, ev := range events {
		icon := "📈"
		if ev.Kind == model.EventSelloff {
			icon = "📉"
		}
		b.WriteString(fmt.Sprintf("%s %s on %s (%s)\n", icon, ev.Kind,
			ev.TriggerDate.Format("2006-01-02"), ev.Exchange))
		b.WriteString(fmt.Sprintf("   volume %s | PH %.2f%%\n",
			humanize.CommafWithDigits(ev.PHVolume, 0), ev.PHPercentage))
	}

	return b.String()
}

// FormatWatchSummary formats a periodic status line for quiet ticks.
func FormatWatchSummary(ticker string, report model.SurgeReport) string {
	if avg, ok := report.AveragePH(); ok {
		return fmt.Sprintf("SurgeScope %s: %d events on record, average PH %.2f%%",
			strings.ToUpper(ticker), report.EventCount, avg)
	}
	return fmt.Sprintf("SurgeScope %s: no surge events on record", strings.ToUpper(ticker))
}
