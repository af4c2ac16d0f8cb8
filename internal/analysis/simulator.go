package analysis

import (
	"math"

	"SurgeScope/internal/model"
)

// DefaultMaxSteps bounds the simulated schedule length. Reaching it means
// the inputs are misconfigured (near-zero step with a huge target ratio),
// not that a longer schedule would be meaningful.
const DefaultMaxSteps = 10000

// SimulationInput holds the parameters for a schedule projection.
type SimulationInput struct {
	CurrentPrice float64
	TargetPrice  float64
	// QPercent grows the tokens sold per step geometrically.
	QPercent float64
	// AvgPHPercent is the observed mean paper-hands percentage, in [0,100].
	AvgPHPercent float64
	// BaseSellQuantity is scaled by AvgPHPercent/100 to get the step-0
	// token quantity; typically the circulating supply.
	BaseSellQuantity float64
	// StepPercent is the per-step price move; 0 defaults to 5.
	StepPercent float64
	// MaxSteps caps the schedule length; 0 defaults to DefaultMaxSteps.
	MaxSteps int
}

func (in SimulationInput) stepPercent() float64 {
	if in.StepPercent == 0 {
		return 5
	}
	return in.StepPercent
}

func (in SimulationInput) maxSteps() int {
	if in.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return in.MaxSteps
}

func (in SimulationInput) validate() error {
	if in.CurrentPrice <= 0 {
		return &InvalidParameterError{Name: "current_price", Value: in.CurrentPrice}
	}
	if in.QPercent < 0 {
		return &InvalidParameterError{Name: "q_percent", Value: in.QPercent}
	}
	if in.AvgPHPercent < 0 || in.AvgPHPercent > 100 {
		return &InvalidParameterError{Name: "avg_ph_percentage", Value: in.AvgPHPercent}
	}
	if in.BaseSellQuantity <= 0 {
		return &InvalidParameterError{Name: "base_sell_quantity", Value: in.BaseSellQuantity}
	}
	if in.StepPercent < 0 {
		return &InvalidParameterError{Name: "step_percent", Value: in.StepPercent}
	}
	return nil
}

// Simulate produces a buyback schedule: price climbs by StepPercent per
// step from CurrentPrice, tokens sold grow by QPercent per step from the
// scaled base quantity, and the schedule ends at the first step whose
// price reaches or exceeds TargetPrice (that step is included).
func Simulate(in SimulationInput) ([]model.BuybackStep, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.TargetPrice <= in.CurrentPrice {
		return nil, &InvalidRangeError{Current: in.CurrentPrice, Target: in.TargetPrice}
	}

	priceFactor := 1 + in.stepPercent()/100
	done := func(price float64) bool { return price >= in.TargetPrice }
	return run(in, priceFactor, done)
}

// SimulateLiquidation is the downward mirror of Simulate: price falls by
// StepPercent per step toward a target below the current price, with the
// same token growth and cumulative accounting.
func SimulateLiquidation(in SimulationInput) ([]model.BuybackStep, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.TargetPrice <= 0 {
		return nil, &InvalidParameterError{Name: "target_price", Value: in.TargetPrice}
	}
	if in.TargetPrice >= in.CurrentPrice {
		return nil, &InvalidRangeError{Current: in.CurrentPrice, Target: in.TargetPrice}
	}

	priceFactor := 1 - in.stepPercent()/100
	if priceFactor <= 0 {
		return nil, &InvalidParameterError{Name: "step_percent", Value: in.StepPercent}
	}
	done := func(price float64) bool { return price <= in.TargetPrice }
	return run(in, priceFactor, done)
}

func run(in SimulationInput, priceFactor float64, done func(float64) bool) ([]model.BuybackStep, error) {
	growth := 1 + in.QPercent/100
	base := in.BaseSellQuantity * in.AvgPHPercent / 100
	maxSteps := in.maxSteps()

	var (
		steps     []model.BuybackStep
		cumTokens float64
		cumUSD    float64
	)
	for k := 0; ; k++ {
		if k >= maxSteps {
			return nil, &DivergenceError{MaxSteps: maxSteps}
		}
		price := in.CurrentPrice * math.Pow(priceFactor, float64(k))
		sold := base * math.Pow(growth, float64(k))
		cumTokens += sold
		cumUSD += sold * price
		steps = append(steps, model.BuybackStep{
			StepIndex:        k,
			Price:            price,
			TokensSold:       sold,
			CumulativeTokens: cumTokens,
			CumulativeUSD:    cumUSD,
		})
		if done(price) {
			return steps, nil
		}
	}
}
