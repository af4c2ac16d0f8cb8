package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"SurgeScope/internal/analysis"
	"SurgeScope/internal/config"
	"SurgeScope/internal/model"
	"SurgeScope/internal/report"
)

type simulateFlags struct {
	target       float64
	qPercent     float64
	stepPercent  float64
	avgPH        float64
	baseQuantity float64
}

func (f *simulateFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.target, "target", 0, "Target price in USD (required)")
	cmd.Flags().Float64Var(&f.qPercent, "q", 0, "Sell-rate growth percentage per step")
	cmd.Flags().Float64Var(&f.stepPercent, "step-pct", 0, "Price step percentage (default from config)")
	cmd.Flags().Float64Var(&f.avgPH, "avg-ph", -1, "Override the average PH percentage (required when no events are found)")
	cmd.Flags().Float64Var(&f.baseQuantity, "base-quantity", 0, "Override the base sell quantity (default: circulating supply)")
	cmd.MarkFlagRequired("target")
}

func newBuybackCmd() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "buyback <ticker>",
		Short: "Project a buyback schedule toward a higher target price",
		Long: `Runs surge detection, then simulates the demand required to walk the
price up in fixed percentage steps to the target. The tokens sold at
step zero are the circulating supply scaled by the observed average
paper-hands percentage; each further step grows that quantity by q%.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), args[0], &flags, model.ScheduleBuyback)
		},
	}
	flags.register(cmd)
	return cmd
}

func newLiquidationCmd() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "liquidation <ticker>",
		Short: "Project a liquidation schedule toward a lower target price",
		Long: `Runs sell-off detection, then simulates supply walking the price down
in fixed percentage steps to a target below the current price.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), args[0], &flags, model.ScheduleLiquidation)
		},
	}
	flags.register(cmd)
	return cmd
}

func runSimulate(ctx context.Context, ticker string, flags *simulateFlags, kind model.ScheduleKind) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	eventKind := model.EventSurge
	if kind == model.ScheduleLiquidation {
		eventKind = model.EventSelloff
	}
	res, err := runDetection(ctx, cfg, ticker, eventKind)
	if err != nil {
		return err
	}
	report.PrintSummary(os.Stdout, res.Snapshot.Info, res.Report, res.Events)

	avgPH, ok := res.Report.AveragePH()
	if !ok {
		// No observed events: refuse to silently assume 0% — an explicit
		// override is required.
		if flags.avgPH < 0 {
			return fmt.Errorf("no %s events found for %s; pass --avg-ph to supply an assumed percentage",
				strings.ToLower(string(eventKind)), strings.ToUpper(ticker))
		}
		avgPH = flags.avgPH
		log.Warn().Float64("avg_ph", avgPH).Msg("using explicit PH override, no events observed")
	} else if flags.avgPH >= 0 {
		avgPH = flags.avgPH
		log.Info().Float64("avg_ph", avgPH).Msg("average PH overridden")
	}

	base := res.Snapshot.Info.CirculatingSupply
	if flags.baseQuantity > 0 {
		base = flags.baseQuantity
	}
	stepPct := cfg.Simulation.StepPercent
	if flags.stepPercent > 0 {
		stepPct = flags.stepPercent
	}

	in := analysis.SimulationInput{
		CurrentPrice:     res.Snapshot.Info.PriceUSD,
		TargetPrice:      flags.target,
		QPercent:         flags.qPercent,
		AvgPHPercent:     avgPH,
		BaseSellQuantity: base,
		StepPercent:      stepPct,
		MaxSteps:         cfg.Simulation.MaxSteps,
	}

	var steps []model.BuybackStep
	if kind == model.ScheduleLiquidation {
		steps, err = analysis.SimulateLiquidation(in)
	} else {
		steps, err = analysis.Simulate(in)
	}
	if err != nil {
		return err
	}

	rec := openRecorder(cfg)
	defer rec.Close()
	runID := recordRun(rec, res, ticker, strings.ToLower(string(kind)))
	if err := rec.RecordSchedule(runID, kind, steps); err != nil {
		log.Warn().Err(err).Msg("record schedule failed")
	}

	suffix := "buyback"
	if kind == model.ScheduleLiquidation {
		suffix = "liquidation"
	}
	csvPath, err := outputPath(cfg, ticker, suffix+".csv")
	if err != nil {
		return err
	}
	if err := report.WriteScheduleCSV(csvPath, steps); err != nil {
		return fmt.Errorf("write schedule csv: %w", err)
	}

	chartPath, err := outputPath(cfg, ticker, suffix+".png")
	if err != nil {
		return err
	}
	title := fmt.Sprintf("%s %s to $%g", strings.ToUpper(ticker), suffix, flags.target)
	if err := report.WriteScheduleChart(chartPath, title, steps); err != nil {
		return fmt.Errorf("write schedule chart: %w", err)
	}

	log.Info().Str("csv", csvPath).Str("chart", chartPath).Int("steps", len(steps)).
		Msg("schedule written")

	report.PrintSchedule(os.Stdout, steps)
	return nil
}
