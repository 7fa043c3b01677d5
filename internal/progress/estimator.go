// Package progress provides the simulated progress estimate for video
// generation. The backend reports no real progress signal, so the estimate is
// derived from elapsed wall-clock time against an assumed total generation
// duration. The formula is isolated here so it is independently testable and
// replaceable once a genuine signal exists.
package progress

import "time"

// Bounds on the simulated estimate. The floor applies once the operation is
// confirmed started; 100 is reserved exclusively for the terminal event.
const (
	MinPercent = 5
	MaxPercent = 99
)

// Estimate maps elapsed time against an assumed total generation duration to
// a percentage in [MinPercent, MaxPercent]. Pure and deterministic.
func Estimate(elapsed, assumedTotal time.Duration) int {
	if assumedTotal <= 0 {
		return MinPercent
	}

	percent := int(elapsed.Seconds() / assumedTotal.Seconds() * 100)
	if percent > MaxPercent {
		percent = MaxPercent
	}
	if percent < MinPercent {
		percent = MinPercent
	}

	return percent
}
