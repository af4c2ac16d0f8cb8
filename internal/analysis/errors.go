package analysis

import (
	"fmt"
	"time"
)

// ValidationError reports malformed market data that the detector cannot
// safely scan, e.g. a bar with a non-positive open price.
type ValidationError struct {
	Date   time.Time
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid bar at %s: %s", e.Date.Format("2006-01-02"), e.Reason)
}

// InvalidRangeError reports a target price on the wrong side of the
// current price, which leaves no schedule to simulate.
type InvalidRangeError struct {
	Current float64
	Target  float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("target price %g is not reachable from current price %g", e.Target, e.Current)
}

// InvalidParameterError reports an out-of-domain simulation parameter.
type InvalidParameterError struct {
	Name  string
	Value float64
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("parameter %s out of domain: %g", e.Name, e.Value)
}

// DivergenceError reports a schedule that would not reach its target
// within the configured step ceiling.
type DivergenceError struct {
	MaxSteps int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("schedule did not reach target within %d steps", e.MaxSteps)
}
