package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"SurgeScope/internal/model"
)

// PrintSummary writes a human-readable run summary.
func PrintSummary(w io.Writer, info *model.CoinInfo, report model.SurgeReport, events []model.SurgeEvent) {
	fmt.Fprintf(w, "%s  price $%s  supply %s\n",
		info.Symbol,
		humanize.CommafWithDigits(info.PriceUSD, 6),
		humanize.CommafWithDigits(info.CirculatingSupply, 0),
	)

	if avg, ok := report.AveragePH(); ok {
		fmt.Fprintf(w, "events: %d  average PH: %.2f%%\n", report.EventCount, avg)
	} else {
		fmt.Fprintf(w, "events: none (average PH unavailable)\n")
	}

	if len(events) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tKIND\tEXCHANGE\tPH VOLUME\tPH %")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			ev.TriggerDate.Format("2006-01-02"),
			ev.Kind,
			ev.Exchange,
			humanize.CommafWithDigits(ev.PHVolume, 2),
			ev.PHPercentage,
		)
	}
	tw.Flush()
}

// PrintSchedule writes the simulated schedule as a table.
func PrintSchedule(w io.Writer, steps []model.BuybackStep) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tPRICE\tTOKENS SOLD\tCUM TOKENS\tCUM USD")
	for _, s := range steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			s.StepIndex,
			humanize.CommafWithDigits(s.Price, 6),
			humanize.CommafWithDigits(s.TokensSold, 2),
			humanize.CommafWithDigits(s.CumulativeTokens, 2),
			humanize.CommafWithDigits(s.CumulativeUSD, 2),
		)
	}
	tw.Flush()
}
