package model

// ScheduleKind distinguishes the two projection directions.
type ScheduleKind string

const (
	ScheduleBuyback     ScheduleKind = "BUYBACK"
	ScheduleLiquidation ScheduleKind = "LIQUIDATION"
)

// BuybackStep is one row of a simulated repurchase (or liquidation)
// schedule. Step 0 describes the current state.
type BuybackStep struct {
	StepIndex        int
	Price            float64
	TokensSold       float64
	CumulativeTokens float64
	CumulativeUSD    float64
}
