package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_ReferenceSchedule(t *testing.T) {
	steps, err := Simulate(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      1.10,
		QPercent:         10,
		AvgPHPercent:     20,
		BaseSellQuantity: 1000,
	})
	require.NoError(t, err)
	require.Len(t, steps, 3)

	assert.Equal(t, 0, steps[0].StepIndex)
	assert.InDelta(t, 1.0, steps[0].Price, 1e-12)
	assert.InDelta(t, 200, steps[0].TokensSold, 1e-9)

	assert.InDelta(t, 1.05, steps[1].Price, 1e-12)
	assert.InDelta(t, 220, steps[1].TokensSold, 1e-9)

	assert.InDelta(t, 1.1025, steps[2].Price, 1e-12)
	assert.InDelta(t, 242, steps[2].TokensSold, 1e-9)
	assert.InDelta(t, 662, steps[2].CumulativeTokens, 1e-9)
}

func TestSimulate_LastStepFirstToReachTarget(t *testing.T) {
	steps, err := Simulate(SimulationInput{
		CurrentPrice:     2.0,
		TargetPrice:      5.0,
		QPercent:         3,
		AvgPHPercent:     40,
		BaseSellQuantity: 1_000_000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	last := steps[len(steps)-1]
	assert.GreaterOrEqual(t, last.Price, 5.0)
	for _, s := range steps[:len(steps)-1] {
		assert.Less(t, s.Price, 5.0, "no step before the last may reach the target")
	}
}

func TestSimulate_Monotonicity(t *testing.T) {
	steps, err := Simulate(SimulationInput{
		CurrentPrice:     0.0225,
		TargetPrice:      0.05,
		QPercent:         1,
		AvgPHPercent:     27.5,
		BaseSellQuantity: 58_345_815,
	})
	require.NoError(t, err)
	require.NotEmpty(t, steps)

	for i := 1; i < len(steps); i++ {
		assert.Greater(t, steps[i].Price, steps[i-1].Price)
		assert.GreaterOrEqual(t, steps[i].CumulativeTokens, steps[i-1].CumulativeTokens)
		assert.GreaterOrEqual(t, steps[i].CumulativeUSD, steps[i-1].CumulativeUSD)
		assert.Equal(t, i, steps[i].StepIndex)
	}
}

func TestSimulate_CustomStepPercent(t *testing.T) {
	steps, err := Simulate(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      1.21,
		QPercent:         0,
		AvgPHPercent:     50,
		BaseSellQuantity: 100,
		StepPercent:      10,
	})
	require.NoError(t, err)
	// 1.0, 1.1, 1.21 — the third step reaches the target exactly.
	require.Len(t, steps, 3)
	assert.InDelta(t, 1.21, steps[2].Price, 1e-12)
	assert.InDelta(t, 50, steps[2].TokensSold, 1e-9)
}

func TestSimulate_ZeroAveragePH(t *testing.T) {
	steps, err := Simulate(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      1.2,
		QPercent:         5,
		AvgPHPercent:     0,
		BaseSellQuantity: 1000,
	})
	require.NoError(t, err)
	for _, s := range steps {
		assert.Equal(t, 0.0, s.TokensSold)
		assert.Equal(t, 0.0, s.CumulativeUSD)
	}
}

func TestSimulate_Errors(t *testing.T) {
	valid := SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      2.0,
		QPercent:         5,
		AvgPHPercent:     20,
		BaseSellQuantity: 1000,
	}

	tests := []struct {
		name   string
		mutate func(*SimulationInput)
		want   error
	}{
		{"target below current", func(in *SimulationInput) { in.TargetPrice = 0.5 }, &InvalidRangeError{}},
		{"target equals current", func(in *SimulationInput) { in.TargetPrice = 1.0 }, &InvalidRangeError{}},
		{"negative q", func(in *SimulationInput) { in.QPercent = -1 }, &InvalidParameterError{}},
		{"avg ph above 100", func(in *SimulationInput) { in.AvgPHPercent = 120 }, &InvalidParameterError{}},
		{"avg ph negative", func(in *SimulationInput) { in.AvgPHPercent = -5 }, &InvalidParameterError{}},
		{"zero current price", func(in *SimulationInput) { in.CurrentPrice = 0 }, &InvalidParameterError{}},
		{"zero base quantity", func(in *SimulationInput) { in.BaseSellQuantity = 0 }, &InvalidParameterError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := Simulate(in)
			require.Error(t, err)
			switch tt.want.(type) {
			case *InvalidRangeError:
				var e *InvalidRangeError
				assert.ErrorAs(t, err, &e)
			case *InvalidParameterError:
				var e *InvalidParameterError
				assert.ErrorAs(t, err, &e)
			}
		})
	}
}

func TestSimulate_Divergence(t *testing.T) {
	_, err := Simulate(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      100.0,
		QPercent:         0,
		AvgPHPercent:     10,
		BaseSellQuantity: 1000,
		MaxSteps:         20,
	})
	var derr *DivergenceError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 20, derr.MaxSteps)
}

func TestSimulateLiquidation(t *testing.T) {
	steps, err := SimulateLiquidation(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      0.91,
		QPercent:         10,
		AvgPHPercent:     20,
		BaseSellQuantity: 1000,
	})
	require.NoError(t, err)
	require.Len(t, steps, 3)

	// 1.0, 0.95, 0.9025 — the third step crosses below the target.
	assert.InDelta(t, 1.0, steps[0].Price, 1e-12)
	assert.InDelta(t, 0.95, steps[1].Price, 1e-12)
	assert.InDelta(t, 0.9025, steps[2].Price, 1e-12)
	assert.InDelta(t, 200, steps[0].TokensSold, 1e-9)
	assert.InDelta(t, 242, steps[2].TokensSold, 1e-9)

	for i := 1; i < len(steps); i++ {
		assert.Less(t, steps[i].Price, steps[i-1].Price)
		assert.GreaterOrEqual(t, steps[i].CumulativeTokens, steps[i-1].CumulativeTokens)
	}
}

func TestSimulateLiquidation_Errors(t *testing.T) {
	_, err := SimulateLiquidation(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      1.5,
		AvgPHPercent:     20,
		BaseSellQuantity: 1000,
	})
	var rerr *InvalidRangeError
	require.ErrorAs(t, err, &rerr)

	_, err = SimulateLiquidation(SimulationInput{
		CurrentPrice:     1.0,
		TargetPrice:      0,
		AvgPHPercent:     20,
		BaseSellQuantity: 1000,
	})
	var perr *InvalidParameterError
	require.ErrorAs(t, err, &perr)
}
