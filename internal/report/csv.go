package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"SurgeScope/internal/model"
)

// WriteEventsCSV writes each event's observation window as a block of
// rows. The trigger day's row carries the per-event metrics; a blank row
// separates blocks.
func WriteEventsCSV(path string, events []model.SurgeEvent) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"date", "open", "high", "low", "close", "volume", "exchange", "trigger", "ph_volume", "ph_percentage"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ev := range events {
		for i, b := range ev.Window {
			row := []string{
				b.Date.Format("2006-01-02"),
				formatFloat(b.Open),
				formatFloat(b.High),
				formatFloat(b.Low),
				formatFloat(b.Close),
				formatFloat(b.Volume),
				ev.Exchange,
				"0", "", "",
			}
			if i == 0 {
				row[7] = "1"
				row[8] = formatFloat(ev.PHVolume)
				row[9] = formatFloat(ev.PHPercentage)
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		if err := w.Write(nil); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteScheduleCSV writes a simulated schedule, one row per step.
func WriteScheduleCSV(path string, steps []model.BuybackStep) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"step", "price", "tokens_sold", "cumulative_tokens", "cumulative_usd_value"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, s := range steps {
		row := []string{
			strconv.Itoa(s.StepIndex),
			formatFloat(s.Price),
			formatFloat(s.TokensSold),
			formatFloat(s.CumulativeTokens),
			formatFloat(s.CumulativeUSD),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
