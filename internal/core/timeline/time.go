// Package timeline implements fixed-point time arithmetic for the track
// engine: T is an exact tick count, never a float, so block boundaries and
// sample grids never drift.
package timeline

import (
	"math"

	"github.com/gowvp/moviemaker/internal/core/moverr"
)

// BaseRate is the number of ticks per second. It is highly composite so
// every supported sample rate divides it evenly.
const BaseRate int64 = 60000

// T is a signed count of ticks, where one tick is 1/BaseRate seconds.
type T int64

// Zero is the identity time value.
const Zero T = 0

// FromFrames converts a frame index at the given sample rate into ticks.
// rate must divide BaseRate evenly.
func FromFrames(frame int64, rate int) (T, error) {
	if err := ValidateSampleRate(rate); err != nil {
		return 0, err
	}
	return T(frame * (BaseRate / int64(rate))), nil
}

// ValidateSampleRate reports whether rate evenly divides BaseRate.
func ValidateSampleRate(rate int) error {
	if rate <= 0 || BaseRate%int64(rate) != 0 {
		return moverr.ErrInvalidSampleRate.Withf("rate=%d", rate)
	}
	return nil
}

// FramePeriod returns the tick duration of one frame at rate.
func FramePeriod(rate int) T {
	return T(BaseRate / int64(rate))
}

// Add saturates at math.MaxInt64/math.MinInt64 instead of overflowing.
func (t T) Add(delta T) T {
	if delta > 0 && t > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if delta < 0 && t < math.MinInt64-delta {
		return math.MinInt64
	}
	return t + delta
}

// Sub is Add with the sign of delta flipped, saturating the same way.
func (t T) Sub(delta T) T {
	if delta == math.MinInt64 {
		// -delta would overflow; MinInt64 subtracted is the same as
		// adding MaxInt64 and one more tick, so just saturate up.
		if t >= 0 {
			return math.MaxInt64
		}
	}
	return t.Add(-delta)
}

// ScaleRat scales t by the rational num/den, truncating toward zero.
func (t T) ScaleRat(num, den int64) T {
	if den == 0 {
		return t
	}
	return T((int64(t) * num) / den)
}

// Floor returns the greatest multiple of step not exceeding t. step must be positive.
func (t T) Floor(step T) T {
	if step <= 0 {
		return t
	}
	q := int64(t) / int64(step)
	if int64(t)%int64(step) != 0 && t < 0 {
		q--
	}
	return T(q) * step
}

// Ceil returns the smallest multiple of step not less than t.
func (t T) Ceil(step T) T {
	floored := t.Floor(step)
	if floored == t {
		return t
	}
	return floored + step
}

// Cmp returns -1, 0, or 1 comparing t to other.
func (t T) Cmp(other T) int {
	switch {
	case t < other:
		return -1
	case t > other:
		return 1
	default:
		return 0
	}
}

// Seconds converts t to a float64 second count, for display purposes only;
// never used in boundary arithmetic.
func (t T) Seconds() float64 {
	return float64(t) / float64(BaseRate)
}

// FromSeconds builds a T from a float second count, rounding to the nearest tick.
func FromSeconds(s float64) T {
	return T(math.Round(s * float64(BaseRate)))
}
